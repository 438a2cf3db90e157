// Package logging configures the run-scoped structured logger. Every
// per-item outcome is one log line; error text passes through Secrets
// before it reaches a log field or a store column.
package logging

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewRun builds a console logger tagged with a fresh run identifier.
func NewRun(verbose bool) (*zap.SugaredLogger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.DisableStacktrace = true
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	l, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return l.Sugar().With("run", uuid.NewString()[:8]), nil
}

// Nop returns a logger that discards everything. Test helper.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
