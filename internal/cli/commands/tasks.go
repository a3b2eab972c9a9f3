package commands

import (
	"MyVault/internal/cli/api"
	"MyVault/internal/config"
	"MyVault/internal/model"
	"context"
	"fmt"
	"strings"
	"time"
)

type taskAddCmd struct{}

func (taskAddCmd) Name() string        { return "task-add" }
func (taskAddCmd) Description() string { return "Добавить задачу" }
func (taskAddCmd) Usage() string       { return "task-add [--due YYYY-MM-DD|RFC3339] <title...>" }

func (taskAddCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := newFlagSet("task-add")
	due := fs.String("due", "", "")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	title := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if title == "" {
		return ErrUsage
	}
	in := model.TaskCreate{Title: title}
	if *due != "" {
		d, err := time.Parse(time.RFC3339, *due)
		if err != nil {
			if d, err = parseDay(*due); err != nil {
				return fmt.Errorf("invalid due date %q", *due)
			}
		}
		in.DueAt = &d
	}
	t, err := newClient(cfg).CreateTask(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(Out, "Created: %s\n", t.ID)
	return nil
}

type tasksCmd struct{}

func (tasksCmd) Name() string        { return "tasks" }
func (tasksCmd) Description() string { return "Показать задачи" }
func (tasksCmd) Usage() string       { return "tasks [--done|--open] [--overdue]" }

func (tasksCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := newFlagSet("tasks")
	done := fs.Bool("done", false, "")
	open := fs.Bool("open", false, "")
	overdue := fs.Bool("overdue", false, "")
	limit := fs.Int("limit", 0, "")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 0 || (*done && *open) {
		return ErrUsage
	}
	q := api.TaskQuery{Overdue: *overdue, Limit: *limit}
	if *done || *open {
		v := *done
		q.IsDone = &v
	}
	list, err := newClient(cfg).ListTasks(ctx, q)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(Out, "Нет задач")
		return nil
	}
	for _, t := range list {
		mark := "[ ]"
		if t.IsDone {
			mark = "[x]"
		}
		due := "-"
		if t.DueAt != nil {
			due = t.DueAt.Format("2006-01-02 15:04")
		}
		title := ""
		if t.Item != nil {
			title = t.Item.Title
		}
		fmt.Fprintf(Out, "%s %s  %-16s %s\n", mark, short(t.ID), due, title)
	}
	fmt.Fprintf(Out, "Всего: %d\n", len(list))
	return nil
}

type taskToggleCmd struct{}

func (taskToggleCmd) Name() string { return "task-toggle" }
func (taskToggleCmd) Description() string {
	return "Отметить задачу выполненной или снять отметку"
}
func (taskToggleCmd) Usage() string { return "task-toggle <id>" }

func (taskToggleCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 || args[0] == "" {
		return ErrUsage
	}
	t, err := newClient(cfg).ToggleTask(ctx, args[0])
	if err != nil {
		return err
	}
	state := "open"
	if t.IsDone {
		state = "done"
	}
	fmt.Fprintf(Out, "Task %s: %s\n", t.ID, state)
	return nil
}

func init() {
	RegisterCmd(taskAddCmd{})
	RegisterCmd(tasksCmd{})
	RegisterCmd(taskToggleCmd{})
}
