package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config holds configuration for the daemon logger.
type Config struct {
	Level      string // debug, info, warn, error
	File       string // rotated JSON log; empty disables file output
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	// Console receives human-readable output. nil means stderr; io.Discard
	// silences it.
	Console io.Writer
}

// Logger is a zap logger plus the rotating file behind it, if any.
type Logger struct {
	*zap.Logger
	file *lumberjack.Logger
}

// New builds a logger that writes console lines to cfg.Console and JSON lines
// to a size-rotated file.
func New(cfg Config) (*Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	console := cfg.Console
	if console == nil {
		console = os.Stderr
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.LowercaseLevelEncoder

	consoleCfg := encoderCfg
	consoleCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleCfg), zapcore.AddSync(console), level),
	}

	var file *lumberjack.Logger
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		file = &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), zapcore.AddSync(file), level))
	}

	return &Logger{
		Logger: zap.New(zapcore.NewTee(cores...)),
		file:   file,
	}, nil
}

// Close flushes buffered entries and closes the log file.
func (l *Logger) Close() error {
	_ = l.Logger.Sync()
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}
