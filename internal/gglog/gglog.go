// Package gglog provides structured logging shared by the git driver,
// engine, and provider packages. It pairs log/slog with lumberjack for
// rotation.
package gglog

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	mu      sync.Mutex
	logger  = slog.New(slog.NewTextHandler(io.Discard, nil))
	current *lumberjack.Logger
)

// Configure points the package logger at a rotating file under dir
// (typically the configs root, ~/.config/gg/gitgud.log). level controls
// the minimum emitted level. Safe to call multiple times; the previous
// writer is closed.
func Configure(dir string, level slog.Level) error {
	mu.Lock()
	defer mu.Unlock()

	if dir == "" {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
		return nil
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	lj := &lumberjack.Logger{
		Filename:   filepath.Join(dir, "gitgud.log"),
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	}
	current = lj

	logger = slog.New(slog.NewTextHandler(lj, &slog.HandlerOptions{Level: level}))
	return nil
}

// Logger returns the shared logger. Components should call this lazily
// rather than caching it, since Configure may be called after a
// component's constructor runs in tests.
func Logger() *slog.Logger {
	mu.Lock()
	defer mu.Unlock()
	return logger
}

// With returns a child logger carrying the given component name.
func With(component string) *slog.Logger {
	return Logger().With("component", component)
}

// Close flushes and closes the current rotating log file, if any.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if current == nil {
		return nil
	}
	err := current.Close()
	current = nil
	return err
}
