package service

import (
	"MyVault/internal/model"
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Типы событий календаря.
const (
	EventTasks    = "tasks"
	EventExpenses = "expenses"
	EventAll      = "all"
)

// CalendarEvent — задача или расход на календаре.
type CalendarEvent struct {
	ID       string           `json:"id"`
	Title    string           `json:"title"`
	Date     string           `json:"date"`
	Time     *string          `json:"time,omitempty"`
	Type     string           `json:"type"`
	IsDone   *bool            `json:"is_done,omitempty"`
	Amount   *decimal.Decimal `json:"amount,omitempty"`
	Category model.Category   `json:"category,omitempty"`
	IsIncome *bool            `json:"is_income,omitempty"`
}

// CalendarEvents — ответ календаря.
type CalendarEvents struct {
	Tasks    []CalendarEvent `json:"tasks"`
	Expenses []CalendarEvent `json:"expenses"`
}

// CalendarService собирает события задач и расходов за диапазон дней.
type CalendarService struct {
	tasks    *TaskService
	expenses *ExpenseService
}

func NewCalendarService(tasks *TaskService, expenses *ExpenseService) *CalendarService {
	return &CalendarService{tasks: tasks, expenses: expenses}
}

func (s *CalendarService) Events(ctx context.Context, start, end time.Time, eventType string) (*CalendarEvents, error) {
	if eventType == "" {
		eventType = EventAll
	}
	if eventType != EventTasks && eventType != EventExpenses && eventType != EventAll {
		return nil, model.NewValidationError("event_type", "must be one of tasks, expenses, all")
	}
	out := &CalendarEvents{Tasks: []CalendarEvent{}, Expenses: []CalendarEvent{}}

	if eventType != EventExpenses {
		tasks, err := s.tasks.ForDateRange(ctx, start, end)
		if err != nil {
			return nil, err
		}
		for _, t := range tasks {
			ev := CalendarEvent{ID: t.ID, Title: itemTitle(t.Item), Type: "task"}
			done := t.IsDone
			ev.IsDone = &done
			if t.DueAt != nil {
				ev.Date = t.DueAt.UTC().Format(DateLayout)
				tm := t.DueAt.UTC().Format("15:04:05")
				ev.Time = &tm
			}
			out.Tasks = append(out.Tasks, ev)
		}
	}

	if eventType != EventTasks {
		expenses, err := s.expenses.ForDateRange(ctx, start, end, CalendarExpenseLimit)
		if err != nil {
			return nil, err
		}
		for _, e := range expenses {
			amount, income := e.Amount, e.IsIncome
			out.Expenses = append(out.Expenses, CalendarEvent{
				ID:       e.ID,
				Title:    itemTitle(e.Item),
				Date:     e.OccurredOn.UTC().Format(DateLayout),
				Type:     "expense",
				Amount:   &amount,
				Category: e.Category,
				IsIncome: &income,
			})
		}
	}
	return out, nil
}

func itemTitle(it *model.Item) string {
	if it == nil {
		return ""
	}
	return it.Title
}
