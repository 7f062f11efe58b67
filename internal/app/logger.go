package app

import (
	"log/slog"
	"os"
)

// NewLogger builds the process logger. Production always emits JSON at
// info level; elsewhere the format follows LOG_FORMAT and debug records
// are kept.
func NewLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelDebug}
	if cfg != nil && cfg.IsProduction() {
		opts.Level = slog.LevelInfo
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	if cfg != nil && cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	opts.AddSource = true
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
