package commands

import (
	"MyVault/internal/config"
	"context"
	"fmt"
)

type statusCmd struct{}

func (statusCmd) Name() string { return "status" }
func (statusCmd) Description() string {
	return "Проверить доступность сервера"
}
func (statusCmd) Usage() string { return "status" }

func (statusCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	if err := newClient(cfg).Health(ctx); err != nil {
		return err
	}
	fmt.Fprintf(Out, "Status: ok (%s)\n", cfg.ServerURL)
	return nil
}

func init() { RegisterCmd(statusCmd{}) }
