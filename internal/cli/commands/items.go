package commands

import (
	"MyVault/internal/config"
	"MyVault/internal/model"
	"context"
	"fmt"
)

type itemsCmd struct{}

func (itemsCmd) Name() string { return "items" }
func (itemsCmd) Description() string {
	return "Показать записи, опционально одного вида"
}
func (itemsCmd) Usage() string { return "items [--limit N] [<kind>]" }

func (itemsCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := newFlagSet("items")
	limit := fs.Int("limit", 0, "")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() > 1 {
		return ErrUsage
	}
	kind := fs.Arg(0)
	if kind != "" && !model.Kind(kind).Valid() {
		return fmt.Errorf("unknown kind %q", kind)
	}
	list, err := newClient(cfg).ListItems(ctx, kind, *limit)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(Out, "Нет записей")
		return nil
	}
	for _, it := range list {
		fmt.Fprintf(Out, "- %s  %-8s %s  (%s)\n", it.ID, it.Kind, it.Title, it.CreatedAt.Format("2006-01-02 15:04"))
	}
	fmt.Fprintf(Out, "Всего: %d\n", len(list))
	return nil
}

func init() { RegisterCmd(itemsCmd{}) }
