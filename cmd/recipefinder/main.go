package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/windoze95/recipe-finder/internal/cli"
)

var (
	version   = "dev"
	buildDate = "unknown"
	gitCommit = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetVersion(version, buildDate, gitCommit)
	cli.Execute(ctx)
}
