package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Adda-Baaj/newsboard/internal/cli"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	cli.SetVersionInfo(version, commit, date)
	code := cli.Execute(ctx)
	stop()
	os.Exit(code)
}
