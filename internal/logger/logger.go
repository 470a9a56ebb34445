package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger creates a zap logger for the given environment.
// prod uses JSON output, dev/local use colored console output, test is silent
// below warn. The returned AtomicLevel can be changed at runtime, e.g. when
// config.yml is reloaded.
func NewLogger(env, levelOverride string) (*zap.Logger, zap.AtomicLevel, error) {
	var cfg zap.Config
	switch env {
	case "prod":
		cfg = zap.NewProductionConfig()
	case "local", "dev", "docker":
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	case "test":
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	default:
		return nil, zap.AtomicLevel{}, fmt.Errorf("unknown environment %q for logger", env)
	}

	if err := ApplyLevel(cfg.Level, levelOverride); err != nil {
		return nil, zap.AtomicLevel{}, err
	}

	l, err := cfg.Build(zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		return nil, zap.AtomicLevel{}, fmt.Errorf("build logger: %w", err)
	}
	return l, cfg.Level, nil
}

// ApplyLevel sets level from a textual override (debug, info, warn, error).
// An empty override leaves the level untouched.
func ApplyLevel(level zap.AtomicLevel, override string) error {
	if override == "" {
		return nil
	}
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(override)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", override, err)
	}
	level.SetLevel(l)
	return nil
}
