package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/roman-kulish/satlink-analyzer/cmd/satlink/app"
)

func main() {
	var logLevel slog.LevelVar
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: &logLevel}))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := app.NewRootCommand(logger, &logLevel).ExecuteContext(ctx); err != nil {
		logger.Error(err.Error())

		cancel()
		os.Exit(1)
	}
}
