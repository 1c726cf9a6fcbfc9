// Package logging builds the application's zap logger.
package logging

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Paintersrp/solosearch/internal/config"
)

// New returns a logger writing to stderr at cfg.Level. The json format
// produces structured output; console is meant for people.
func New(cfg config.LogConfig, opts ...zap.Option) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to parse log level: %w", err)
	}

	var zc zap.Config
	switch cfg.Format {
	case "json":
		zc = zap.NewProductionConfig()
	case "console", "":
		zc = zap.NewDevelopmentConfig()
		zc.DisableStacktrace = true
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}
	zc.Level = level
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}

	return zc.Build(opts...)
}
