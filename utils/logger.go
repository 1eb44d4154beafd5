package utils

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds a production logger at the given level ("debug", "info",
// "warn", "error"). An unknown level or a failing sink yields a no-op logger.
func NewLogger(level string) *zap.Logger {
	return build(zap.NewProductionConfig(), level)
}

// NewDevelopmentLogger is NewLogger with console output and caller stack traces
// on warnings.
func NewDevelopmentLogger(level string) *zap.Logger {
	return build(zap.NewDevelopmentConfig(), level)
}

func build(cfg zap.Config, level string) *zap.Logger {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return zap.NewNop()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	log, err := cfg.Build()
	if err != nil {
		// Fall back to nop logger
		return zap.NewNop()
	}
	return log
}
