package main

import (
	"MyVault/internal/cli/commands"
	"MyVault/internal/config"
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
)

// Заполняются при сборке: -ldflags "-X main.version=... -X main.buildDate=...".
var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	cfg := config.NewConfig()
	commands.Version, commands.BuildDate = version, buildDate

	if cfg.Version {
		commands.PrintVersion()
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := commands.Dispatch(ctx, cfg, flag.Args())
	stop()
	os.Exit(code)
}
