package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Config contains logging configuration.
type Config struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string
	// FilePath is the path to the log file. Empty means no file logging.
	FilePath string
	// Stderr receives log output alongside the file. Nil disables it.
	Stderr io.Writer
}

// DefaultConfig returns the quiet stderr-only configuration.
func DefaultConfig() Config {
	return Config{
		Level:  "warn",
		Stderr: os.Stderr,
	}
}

// DebugConfig returns configuration for --debug.
func DebugConfig() Config {
	return Config{
		Level:    "debug",
		FilePath: DefaultLogPath(),
		Stderr:   os.Stderr,
	}
}

// Setup builds a logger from cfg and returns it with a cleanup function
// that closes the log file, if any.
func Setup(cfg Config) (*slog.Logger, func(), error) {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	if cfg.FilePath == "" {
		out := cfg.Stderr
		if out == nil {
			out = io.Discard
		}
		return slog.New(slog.NewTextHandler(out, opts)), func() {}, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	var output io.Writer = f
	if cfg.Stderr != nil {
		output = io.MultiWriter(f, cfg.Stderr)
	}

	logger := slog.New(slog.NewJSONHandler(output, opts))

	cleanup := func() {
		_ = f.Sync()
		_ = f.Close()
	}

	return logger, cleanup, nil
}

// parseLevel converts string level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
