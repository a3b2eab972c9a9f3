package commands

import (
	"MyVault/internal/cli/api"
	"MyVault/internal/config"
	"context"
	"errors"
	"fmt"
	"strings"
)

// Коды выхода CLI.
const (
	ExitOK     = 0
	ExitFailed = 1
	ExitUsage  = 2
)

// Dispatch выполняет команду из args и возвращает код выхода процесса.
// Ошибки печатаются в Out.
func Dispatch(ctx context.Context, cfg *config.Config, args []string) int {
	if len(args) == 0 {
		fmt.Fprint(Out, FormatGlobalUsage())
		return ExitUsage
	}

	name := strings.ToLower(args[0])
	switch name {
	case "help", "-h", "--help":
		if len(args) == 1 {
			fmt.Fprint(Out, FormatGlobalUsage())
			return ExitOK
		}
		if c, ok := Get(args[1]); ok {
			fmt.Fprintf(Out, "Usage: %s\n  %s\n", c.Usage(), c.Description())
			return ExitOK
		}
		fmt.Fprintf(Out, "Unknown command: %s\n\n", args[1])
		fmt.Fprint(Out, FormatGlobalUsage())
		return ExitUsage
	}

	c, ok := Get(name)
	if !ok {
		fmt.Fprintf(Out, "Unknown command: %s\n\n", name)
		fmt.Fprint(Out, FormatGlobalUsage())
		return ExitUsage
	}

	err := c.Run(ctx, cfg, args[1:])
	var apiErr *api.APIError
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrUsage):
		fmt.Fprintf(Out, "Usage: %s\n", c.Usage())
		return ExitUsage
	case errors.As(err, &apiErr) && len(apiErr.Fields) > 0:
		fmt.Fprintf(Out, "%s error: %s (%d)\n", name, apiErr.Message, apiErr.Status)
		for _, f := range apiErr.Fields {
			fmt.Fprintf(Out, "  %s: %s\n", f.Field, f.Message)
		}
		return ExitFailed
	default:
		fmt.Fprintf(Out, "%s error: %v\n", name, err)
		return ExitFailed
	}
}
