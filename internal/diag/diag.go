// Package diag is the engine-internal structured logger: recovered
// panics, persistence failures, invariant reports. It writes to a file
// because stdout belongs to the terminal UI; player-facing text goes
// through internal/message instead.
package diag

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a logger appending JSON lines to path. A logger that can't
// open its file degrades to a no-op rather than failing startup.
func New(path string) *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
