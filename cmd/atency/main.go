package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hitoshi/atency/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	streams := app.Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
	if err := app.Run(ctx, streams, os.Args[1:]); err != nil {
		if !errors.Is(err, app.ErrCommandFailed) {
			slog.Error("command failed", slog.String("error", err.Error()))
		}
		stop()
		os.Exit(1)
	}
}
