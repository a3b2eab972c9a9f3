package commands

import (
	"MyVault/internal/config"
	"context"
	"fmt"
)

// Версия клиента; заполняется из main через ldflags.
var (
	Version   = "dev"
	BuildDate = "unknown"
)

type versionCmd struct{}

func (versionCmd) Name() string { return "version" }
func (versionCmd) Description() string {
	return "Показать версию клиента"
}
func (versionCmd) Usage() string { return "version" }

func (versionCmd) Run(_ context.Context, _ *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	PrintVersion()
	return nil
}

// PrintVersion печатает версию и дату сборки в Out.
func PrintVersion() {
	fmt.Fprintf(Out, "MyVault CLI\nVersion: %s\nBuild date: %s\n", Version, BuildDate)
}

func init() { RegisterCmd(versionCmd{}) }
