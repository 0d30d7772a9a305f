// Package log configures the process-wide zap logger. Packages log through
// zap.L() and name their logger, e.g. zap.L().Named("engine").
package log

import (
	"fmt"
	"io"

	"github.com/LeJamon/goMarketd/internal/config"
	"github.com/mattn/go-colorable"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger builds a logger that writes human-readable lines to stdout and,
// when cfg.File is set, JSON lines to a size-rotated file. debug forces the
// debug level.
func NewLogger(cfg config.LogConfig, debug bool) (*zap.Logger, error) {
	return newLogger(cfg, debug, colorable.NewColorableStdout())
}

func newLogger(cfg config.LogConfig, debug bool, console io.Writer) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	if debug {
		level = zapcore.DebugLevel
	}

	pe := zap.NewProductionEncoderConfig()
	pe.EncodeTime = zapcore.ISO8601TimeEncoder
	pe.MessageKey = "message"
	pe.TimeKey = "time"
	fileEncoder := zapcore.NewJSONEncoder(pe)

	if cfg.Color {
		pe.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		pe.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	consoleEncoder := zapcore.NewConsoleEncoder(pe)

	cores := []zapcore.Core{
		zapcore.NewCore(consoleEncoder, zapcore.AddSync(console), level),
	}
	if cfg.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
		}
		cores = append(cores, zapcore.NewCore(fileEncoder, zapcore.AddSync(rotator), level))
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller()), nil
}

// Setup installs the logger as zap's global and returns a function that
// flushes and restores the previous global.
func Setup(cfg config.LogConfig, debug bool) (func(), error) {
	logger, err := NewLogger(cfg, debug)
	if err != nil {
		return nil, err
	}
	restore := zap.ReplaceGlobals(logger)
	return func() {
		_ = logger.Sync()
		restore()
	}, nil
}
