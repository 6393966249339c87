// Package logging configures the process-wide structured logger.
package logging

import (
	"os"
	"strings"

	"go.uber.org/zap"
)

// New builds a zap sugared logger. CAPLEARN_LOG=prod switches to JSON
// production output; anything else gets the development console format.
// CAPLEARN_LOG_LEVEL (debug, info, warn, error) overrides the level.
func New() (*zap.SugaredLogger, error) {
	var cfg zap.Config
	switch strings.ToLower(os.Getenv("CAPLEARN_LOG")) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
	}

	if lvl := os.Getenv("CAPLEARN_LOG_LEVEL"); lvl != "" {
		parsed, err := zap.ParseAtomicLevel(lvl)
		if err != nil {
			return nil, err
		}
		cfg.Level = parsed
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}

// Nop returns a logger that discards everything. Services take it in
// tests where log output is noise.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
