package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/Paintersrp/solosearch/internal/constants"
)

// Keys understood by Load.
const (
	KeyDataBagPath = "data_bag_path"
	KeyRows        = "search.rows"
	KeyWorkers     = "search.workers"
	KeyCacheSize   = "search.cache_size"
	KeyLogLevel    = "log.level"
	KeyLogFormat   = "log.format"
)

type SearchConfig struct {
	Rows      int `mapstructure:"rows"       yaml:"rows"`
	Workers   int `mapstructure:"workers"    yaml:"workers,omitempty"`
	CacheSize int `mapstructure:"cache_size" yaml:"cache_size"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

type Config struct {
	DataBagPath string       `mapstructure:"data_bag_path" yaml:"data_bag_path"`
	Search      SearchConfig `mapstructure:"search"        yaml:"search"`
	Log         LogConfig    `mapstructure:"log"           yaml:"log"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		DataBagPath: "./data_bags",
		Search: SearchConfig{
			Rows:      1000,
			Workers:   runtime.NumCPU(),
			CacheSize: 128,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// NewViper returns a viper instance reading from fsys with defaults and
// environment overrides registered. When file is empty the config is searched
// for under $HOME/.solosearch.
func NewViper(fsys afero.Fs, home, file string) *viper.Viper {
	v := viper.New()
	v.SetFs(fsys)
	SetDefaults(v)

	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		if home != "" {
			v.AddConfigPath(filepath.Join(home, constants.ConfigDir))
		}
		v.SetConfigName(constants.ConfigFile)
		v.SetConfigType(constants.ConfigFileType)
	}
	return v
}

func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault(KeyDataBagPath, d.DataBagPath)
	v.SetDefault(KeyRows, d.Search.Rows)
	v.SetDefault(KeyWorkers, d.Search.Workers)
	v.SetDefault(KeyCacheSize, d.Search.CacheSize)
	v.SetDefault(KeyLogLevel, d.Log.Level)
	v.SetDefault(KeyLogFormat, d.Log.Format)
}

// ReadInConfig reads the config file if there is one. A missing file found
// through the search path is not an error.
func ReadInConfig(v *viper.Viper) error {
	err := v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if err == nil || errors.As(err, &notFound) {
		return nil
	}
	return fmt.Errorf("failed to read config: %w", err)
}

// Load decodes and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.DataBagPath) == "" {
		return invalid(KeyDataBagPath, "must not be empty")
	}
	if c.Search.Rows < 0 {
		return invalid(KeyRows, "must not be negative, got %d", c.Search.Rows)
	}
	if c.Search.Workers < 1 {
		return invalid(KeyWorkers, "must be at least 1, got %d", c.Search.Workers)
	}
	if c.Search.CacheSize < 0 {
		return invalid(KeyCacheSize, "must not be negative, got %d", c.Search.CacheSize)
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return invalid(KeyLogLevel, "unknown level %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return invalid(KeyLogFormat, "must be console or json, got %q", c.Log.Format)
	}
	return nil
}
