// Package service — бизнес-логика MyVault поверх адаптеров хранения.
package service

import (
	"MyVault/internal/blob"
	"MyVault/internal/model"
	"MyVault/internal/repo"
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultLimit = 50
	MaxLimit     = 100

	DefaultConversationLimit = 20
	MaxConversationLimit     = 50

	// CalendarExpenseLimit — сколько расходов показывает календарь.
	CalendarExpenseLimit = 100

	DefaultMaxUploadBytes = 10 << 20
)

// Page — окно выборки. Нулевой Limit означает значение по умолчанию.
type Page struct {
	Limit  int
	Offset int
}

func (p Page) normalize(def, max int) (Page, error) {
	if p.Limit == 0 {
		p.Limit = def
	}
	if p.Limit < 1 || p.Limit > max {
		return p, model.NewValidationError("limit", fmt.Sprintf("must be between 1 and %d", max))
	}
	if p.Offset < 0 {
		return p, model.NewValidationError("offset", "must not be negative")
	}
	return p, nil
}

// Options — настройки сервисов.
type Options struct {
	MaxUploadBytes int64
}

// Services — все сервисы приложения поверх одного Storage.
type Services struct {
	Items    *ItemService
	Expenses *ExpenseService
	Tasks    *TaskService
	Chats    *ChatService
	Files    *FileService
	Reports  *ReportService
	Calendar *CalendarService
}

// New собирает сервисы. Хранилища создаются один раз в main и передаются сюда.
func New(st *repo.Storage, blobs blob.Store, logger *zap.SugaredLogger, opts Options) *Services {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = DefaultMaxUploadBytes
	}
	s := &Services{
		Expenses: NewExpenseService(st.Expenses, logger),
		Tasks:    NewTaskService(st.Tasks, logger),
		Chats:    NewChatService(st.Chats, logger),
		Files:    NewFileService(st.Files, blobs, logger, opts.MaxUploadBytes),
	}
	s.Reports = NewReportService(st.Expenses)
	s.Calendar = NewCalendarService(s.Tasks, s.Expenses)
	s.Items = NewItemService(st.Items, logger, map[model.Kind]itemBound{
		model.KindExpense: s.Expenses,
		model.KindTask:    s.Tasks,
		model.KindChat:    s.Chats,
		model.KindFile:    s.Files,
	})
	return s
}

// DateLayout — формат дат в запросах.
const DateLayout = "2006-01-02"

// dayStart — полночь UTC того же календарного дня.
func dayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// dayRange превращает включительный диапазон дней в полуинтервал [from, to).
func dayRange(start, end time.Time) (time.Time, time.Time, error) {
	from, to := dayStart(start), dayStart(end)
	if to.Before(from) {
		return from, to, model.NewValidationError("end_date", "must not be before start_date")
	}
	return from, to.AddDate(0, 0, 1), nil
}

// itemBound — операции над Item, которые для видов с дочерней записью
// выполняются через сервис этого вида.
type itemBound interface {
	updateByItem(ctx context.Context, itemID string, p model.ItemPatch) error
	deleteByItem(ctx context.Context, itemID string) error
}

// childIDByItem находит id дочерней записи по id Item.
func childIDByItem[C any](ctx context.Context, r repo.ChildRepository[C], itemID string) (string, error) {
	c, err := r.FindByItem(ctx, itemID)
	if err != nil {
		return "", err
	}
	ch, ok := any(c).(model.Child)
	if !ok {
		return "", errors.New("record is not a child")
	}
	return ch.ChildID(), nil
}
