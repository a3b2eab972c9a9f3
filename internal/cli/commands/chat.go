package commands

import (
	"MyVault/internal/config"
	"MyVault/internal/model"
	"context"
	"fmt"
	"strings"
)

type chatCmd struct{}

func (chatCmd) Name() string { return "chat" }
func (chatCmd) Description() string {
	return "Отправить сообщение в диалог"
}
func (chatCmd) Usage() string { return "chat [--conversation ID] <message...>" }

func (chatCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := newFlagSet("chat")
	conv := fs.String("conversation", "", "")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	msg := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if msg == "" {
		return ErrUsage
	}
	in := model.ChatCreate{Message: msg}
	if *conv != "" {
		in.ConversationID = conv
	}
	m, err := newClient(cfg).SendMessage(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(Out, "Sent: %s (conversation %s, %s)\n", m.ID, m.ConversationID, m.Status)
	return nil
}

func init() { RegisterCmd(chatCmd{}) }
