package commands

import (
	"MyVault/internal/config"
	"context"
	"fmt"
)

type uploadCmd struct{}

func (uploadCmd) Name() string        { return "upload" }
func (uploadCmd) Description() string { return "Загрузить файл" }
func (uploadCmd) Usage() string       { return "upload [--folder F] [--title T] <path>" }

func (uploadCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := newFlagSet("upload")
	folder := fs.String("folder", "", "")
	title := fs.String("title", "", "")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return ErrUsage
	}
	f, err := newClient(cfg).UploadFile(ctx, fs.Arg(0), *folder, *title)
	if err != nil {
		return err
	}
	fmt.Fprintln(Out, "Uploaded:")
	fmt.Fprintf(Out, "  id:     %s\n", f.ID)
	fmt.Fprintf(Out, "  folder: %s\n", f.Folder)
	fmt.Fprintf(Out, "  type:   %s\n", f.ContentType)
	fmt.Fprintf(Out, "  url:    %s\n", f.PublicURL)
	return nil
}

func init() { RegisterCmd(uploadCmd{}) }
