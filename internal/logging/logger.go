package logging

import (
	"log/slog"
	"os"

	"gorm.io/gorm"
)

// Setup installs a JSON stdout logger as the slog default.
func Setup() {
	slog.SetDefault(slog.New(stdoutHandler()))
}

// AttachDB additionally persists ERROR records to system_logs. The returned
// handler must be stopped on shutdown to flush its buffer.
func AttachDB(db *gorm.DB) *PGHandler {
	pg := NewPGHandler(db)
	slog.SetDefault(slog.New(NewMultiHandler(
		Route{Handler: stdoutHandler()},
		Route{Handler: pg, Min: slog.LevelError},
	)))
	return pg
}

func stdoutHandler() slog.Handler {
	return slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
}
