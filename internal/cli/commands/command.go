package commands

import (
	"MyVault/internal/cli/api"
	"MyVault/internal/config"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// ErrUsage возвращается командой при неверных аргументах; диспетчер печатает Usage.
var ErrUsage = errors.New("usage")

// Command — подкоманда CLI.
type Command interface {
	// Name — имя, которое вводит пользователь, например "expenses".
	Name() string
	// Description — короткое описание для справки.
	Description() string
	// Usage — строка использования, например "expense-del <id>".
	Usage() string
	// Run выполняет команду; args без имени команды.
	Run(ctx context.Context, cfg *config.Config, args []string) error
}

var registry = map[string]Command{}

// Out — общий writer для вывода CLI. По умолчанию os.Stdout, в тестах подменяется.
var Out io.Writer = os.Stdout

// newClient создаёт HTTP-клиент сервера.
var newClient = func(cfg *config.Config) *api.Client { return api.New(cfg.ServerURL) }

// RegisterCmd добавляет команду в реестр; вызывается из init() файла команды.
func RegisterCmd(cmd Command) {
	registry[cmd.Name()] = cmd
}

func Get(name string) (Command, bool) {
	c, ok := registry[name]
	return c, ok
}

// List возвращает команды, отсортированные по имени.
func List() []Command {
	list := make([]Command, 0, len(registry))
	for _, c := range registry {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name() < list[j].Name() })
	return list
}

// FormatGlobalUsage — общая справка со списком команд.
func FormatGlobalUsage() string {
	var b strings.Builder
	b.WriteString("MyVault CLI\n\n")
	b.WriteString("Usage:\n  myvault [--base-url <host:port>] [--https] <command> [args]\n\n")
	b.WriteString("Commands:\n")
	width := 0
	for _, c := range List() {
		if n := len(c.Usage()); n > width {
			width = n
		}
	}
	for _, c := range List() {
		fmt.Fprintf(&b, "  %-*s  %s\n", width, c.Usage(), c.Description())
	}
	return b.String()
}
