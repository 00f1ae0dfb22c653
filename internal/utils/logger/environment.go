package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dwarvesf/tradeshield-backend/internal/types/environments"
)

// profile is the per-environment part of a zap.Config.
type profile struct {
	level   zapcore.Level
	console bool
	quiet   bool // no caller or stacktrace annotations
	discard bool // entries go nowhere
}

var profiles = map[environments.Environment]profile{
	environments.Development: {level: zapcore.DebugLevel, console: true, quiet: true},
	environments.Test:        {level: zapcore.InfoLevel, discard: true},
	environments.Staging:     {level: zapcore.InfoLevel, quiet: true},
	environments.Production:  {level: zapcore.InfoLevel},
}

// configFor falls back to the production profile for unknown environments.
func configFor(env environments.Environment) zap.Config {
	p, ok := profiles[env]
	if !ok {
		p = profiles[environments.Production]
	}

	cfg := zap.Config{
		Level:             zap.NewAtomicLevelAt(p.level),
		Development:       p.console,
		DisableCaller:     p.quiet,
		DisableStacktrace: p.quiet,
		Encoding:          "json",
		EncoderConfig:     jsonEncoderConfig(),
		OutputPaths:       []string{"stdout"},
		ErrorOutputPaths:  []string{"stderr"},
	}

	if p.console {
		cfg.Encoding = "console"
		cfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	if p.discard {
		cfg.OutputPaths = []string{}
		cfg.ErrorOutputPaths = []string{}
	}

	return cfg
}

func jsonEncoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "timestamp"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg
}
