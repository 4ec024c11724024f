package logger

import (
	"log/slog"
	"os"
)

// Init installs a JSON slog logger as the process default.
func Init(service string) {
	hostname, _ := os.Hostname()
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	logger := slog.New(handler).With(
		slog.String("service", service),
		slog.String("hostname", hostname),
	)
	slog.SetDefault(logger)
}
