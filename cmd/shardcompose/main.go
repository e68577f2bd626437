package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sarth-shah20/shardcompose/cmd"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// We delegate all logic to the cmd package.
	if err := cmd.Execute(ctx); err != nil {
		cancel()
		os.Exit(1)
	}
}
