package internal

import (
	"context"
	"log/slog"

	pkgconfig "github.com/momwise/momwise/pkg/config"
)

// watchLogLevel re-reads the config file whenever it changes and applies
// the new app.log_level. Other settings require a restart.
func watchLogLevel(ctx context.Context, path string, level *slog.LevelVar, logger *slog.Logger) error {
	return pkgconfig.Watch(ctx, path, logger, func() {
		reloadLogLevel(path, level, logger)
	})
}

func reloadLogLevel(path string, level *slog.LevelVar, logger *slog.Logger) {
	cfg := NewDefaultConfig()
	if err := pkgconfig.Load(path, cfg); err != nil {
		logger.Warn("config reload failed, keeping current settings",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return
	}
	if old := level.Level(); old != cfg.App.LogLevel {
		level.Set(cfg.App.LogLevel)
		logger.Info("log level changed",
			slog.String("from", old.String()),
			slog.String("to", cfg.App.LogLevel.String()))
	}
}
