package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/1broseidon/progman/internal/config"
	"github.com/1broseidon/progman/internal/daemon"
	"github.com/1broseidon/progman/internal/logging"
)

// loadConfig loads path, or the default location when path is empty.
func loadConfig(path string) (*config.LoadResult, error) {
	if path == "" {
		def, err := config.DefaultConfigPath()
		if err != nil {
			return nil, err
		}
		path = def
	}
	return config.LoadFromPath(path)
}

func newLogger(cfg config.LoggingConfig) (*logging.Logger, error) {
	return logging.New(logging.Config{
		Level:      cfg.Level,
		File:       cfg.File,
		MaxSizeMB:  cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAgeDays: cfg.MaxAgeDays,
		Console:    stderr,
	})
}

func runDaemon(args []string) int {
	fs := newFlagSet("daemon", "Usage: progman daemon [--config PATH]\n\nRun the window manager in the foreground. SIGHUP reloads the app catalog.")
	path := fs.StringP("config", "c", "", "Config file path (default: ~/.config/progman/config.yaml)")
	if code := parseFlags(fs, args, 0); code >= 0 {
		return code
	}

	res, err := loadConfig(*path)
	if err != nil {
		return fail(fmt.Errorf("failed to load configuration: %w", err))
	}
	logger, err := newLogger(res.Config.Logging)
	if err != nil {
		return fail(err)
	}
	defer logger.Close()

	if res.File != "" {
		logger.Info("configuration loaded", zap.String("file", res.File))
	} else {
		logger.Info("no config file found, using defaults")
	}

	d, err := daemon.New(daemon.Options{Config: res.Config, Logger: logger.Logger})
	if err != nil {
		logger.Error("failed to start daemon", zap.Error(err))
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-hup:
				if n, err := d.Reload(); err != nil {
					logger.Warn("catalog reload failed", zap.Error(err))
				} else {
					logger.Info("catalog reloaded", zap.Int("apps", n))
				}
			}
		}
	}()

	if err := d.Run(ctx); err != nil {
		if errors.Is(err, daemon.ErrAlreadyRunning) {
			fmt.Fprintln(stderr, err)
			return 1
		}
		logger.Error("daemon stopped", zap.Error(err))
		return 1
	}
	logger.Info("progman daemon stopped")
	return 0
}
