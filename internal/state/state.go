package state

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/Paintersrp/solosearch/internal/config"
	"github.com/Paintersrp/solosearch/internal/logging"
	"github.com/Paintersrp/solosearch/internal/pathutil"
	"github.com/Paintersrp/solosearch/internal/search"
	"github.com/Paintersrp/solosearch/internal/source"
)

// State holds the dependencies shared by every command.
type State struct {
	Home   string
	Viper  *viper.Viper
	Config *config.Config
	Logger *zap.Logger
	Source *source.FS
	Engine *search.Engine

	fs afero.Fs
}

// New builds the application state reading configuration and records from
// fsys.
func New(fsys afero.Fs, home, configFile string) (*State, error) {
	s := Prepare(fsys, home)
	if err := s.Load(configFile); err != nil {
		return nil, err
	}
	return s, nil
}

// Prepare returns a state with only its viper instance set, ready for flags
// to be bound before Load runs.
func Prepare(fsys afero.Fs, home string) *State {
	return &State{
		Home:  home,
		Viper: config.NewViper(fsys, home, ""),
		fs:    fsys,
	}
}

// Load reads the configuration and builds the logger, source and engine. A
// non-empty configFile replaces the default config location.
func (s *State) Load(configFile string) error {
	if configFile != "" {
		s.Viper.SetConfigFile(configFile)
	}
	if err := config.ReadInConfig(s.Viper); err != nil {
		return err
	}

	cfg, err := config.Load(s.Viper)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}

	root := pathutil.Resolve(cfg.DataBagPath, s.Home)
	logger.Debug("configured",
		zap.String("config_file", s.Viper.ConfigFileUsed()),
		zap.String("data_bag_path", root),
		zap.Int("workers", cfg.Search.Workers))

	s.Config = cfg
	s.Logger = logger
	s.Source = source.NewFS(s.fs, root, logger)
	s.Engine = search.NewEngine(s.Source, search.Config{
		Workers:   cfg.Search.Workers,
		CacheSize: cfg.Search.CacheSize,
	}, logger)
	return nil
}

func GetHomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory. err: %s", err)
	}

	return home, nil
}

// Close flushes buffered log entries.
func (s *State) Close() error {
	if s == nil || s.Logger == nil {
		return nil
	}
	// Syncing a terminal fails on some platforms; nothing is lost there.
	_ = s.Logger.Sync()
	return nil
}

// Fs returns the filesystem the state reads from.
func (s *State) Fs() afero.Fs { return s.fs }
