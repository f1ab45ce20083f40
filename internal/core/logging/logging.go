// Package logging builds the zap loggers used across reviewrider.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a production logger writing JSON lines to stderr. Only
// warnings and errors are written unless verbose is set, which enables
// everything down to debug.
func New(verbose bool) (*zap.Logger, error) {
	return build(level(verbose, zapcore.WarnLevel), []string{"stderr"})
}

// NewFile returns a logger that appends to path instead of stderr. Commands
// that own the terminal or stdio (TUI, MCP) log here.
func NewFile(path string, verbose bool) (*zap.Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	return build(level(verbose, zapcore.InfoLevel), []string{path})
}

func level(verbose bool, quiet zapcore.Level) zapcore.Level {
	if verbose {
		return zapcore.DebugLevel
	}
	return quiet
}

func build(lvl zapcore.Level, outputs []string) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(lvl)
	config.OutputPaths = outputs
	config.ErrorOutputPaths = outputs
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// OrNop returns l, or a no-op logger when l is nil
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
