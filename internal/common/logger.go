package common

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"thanksboard/internal/config"
)

// NewLogger builds the process logger. It is passed to constructors, never stored globally.
func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	var zcfg zap.Config

	if cfg.Logging.Format == "console" || (cfg.Logging.Format == "" && cfg.IsDevelopment()) {
		// console output, human readable
		zcfg = zap.NewDevelopmentConfig()
		zcfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		zcfg = zap.NewProductionConfig()
		zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	if cfg.Logging.Level != "" {
		level, err := zapcore.ParseLevel(cfg.Logging.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Logging.Level, err)
		}
		zcfg.Level = zap.NewAtomicLevelAt(level)
	}

	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger.With(zap.String("service", "thanksboard")), nil
}
