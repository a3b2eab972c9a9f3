package service

import (
	"MyVault/internal/model"
	"MyVault/internal/repo"
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// TaskService — задачи.
type TaskService struct {
	repo   repo.ChildRepository[model.Task]
	logger *zap.SugaredLogger
	now    func() time.Time
}

func NewTaskService(r repo.ChildRepository[model.Task], logger *zap.SugaredLogger) *TaskService {
	return &TaskService{repo: r, logger: logger, now: model.Now}
}

// TaskFilter — фильтры списка задач. Overdue: срок прошёл, задача не выполнена.
type TaskFilter struct {
	IsDone  *bool
	DueDate *time.Time
	Overdue bool
}

func (s *TaskService) Create(ctx context.Context, in model.TaskCreate) (*model.Task, error) {
	if err := model.Validate(in); err != nil {
		return nil, err
	}
	t := &model.Task{IsDone: in.IsDone}
	if in.DueAt != nil {
		d := in.DueAt.UTC().Truncate(time.Microsecond)
		t.DueAt = &d
	}
	item := &model.Item{Title: in.Title, Content: in.Content}
	if err := s.repo.InsertPair(ctx, item, t); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	s.logger.Infow("task created", "id", t.ID, "item_id", t.ItemID)
	return s.repo.ReadChild(ctx, t.ID)
}

// List возвращает задачи по возрастанию срока; задачи без срока в конце.
func (s *TaskService) List(ctx context.Context, f TaskFilter, p Page) ([]model.Task, error) {
	p, err := p.normalize(DefaultLimit, MaxLimit)
	if err != nil {
		return nil, err
	}
	var conds []repo.Cond
	if f.IsDone != nil {
		conds = append(conds, repo.Cond{Field: "is_done", Op: repo.Eq, Value: *f.IsDone})
	}
	if f.DueDate != nil {
		from := dayStart(*f.DueDate)
		conds = append(conds,
			repo.Cond{Field: "due_at", Op: repo.Gte, Value: from},
			repo.Cond{Field: "due_at", Op: repo.Lt, Value: from.AddDate(0, 0, 1)},
		)
	}
	if f.Overdue {
		conds = append(conds,
			repo.Cond{Field: "due_at", Op: repo.Lt, Value: s.now()},
			repo.Cond{Field: "is_done", Op: repo.Eq, Value: false},
		)
	}
	return s.repo.QueryChildren(ctx, repo.Query{
		Where:   conds,
		OrderBy: []repo.Sort{{Field: "due_at"}},
		Limit:   p.Limit,
		Offset:  p.Offset,
	})
}

// ForDateRange — задачи со сроком в включительном диапазоне дней.
func (s *TaskService) ForDateRange(ctx context.Context, start, end time.Time) ([]model.Task, error) {
	from, to, err := dayRange(start, end)
	if err != nil {
		return nil, err
	}
	return s.repo.QueryChildren(ctx, repo.Query{
		Where: []repo.Cond{
			{Field: "due_at", Op: repo.Gte, Value: from},
			{Field: "due_at", Op: repo.Lt, Value: to},
		},
		OrderBy: []repo.Sort{{Field: "due_at"}},
	})
}

func (s *TaskService) Get(ctx context.Context, id string) (*model.Task, error) {
	return s.repo.ReadChild(ctx, id)
}

func (s *TaskService) Update(ctx context.Context, id string, in model.TaskUpdate) (*model.Task, error) {
	if err := model.Validate(in); err != nil {
		return nil, err
	}
	ip, cp := in.Split()
	t, err := s.repo.UpdateChild(ctx, id, ip, cp)
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return t, nil
}

// Toggle инвертирует is_done.
func (s *TaskService) Toggle(ctx context.Context, id string) (*model.Task, error) {
	cur, err := s.repo.ReadChild(ctx, id)
	if err != nil {
		return nil, err
	}
	t, err := s.repo.UpdateChild(ctx, id, model.ItemPatch{}, model.ChildPatch{"is_done": !cur.IsDone})
	if err != nil {
		return nil, fmt.Errorf("toggle task: %w", err)
	}
	s.logger.Infow("task toggled", "id", id, "is_done", t.IsDone)
	return t, nil
}

func (s *TaskService) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteChild(ctx, id); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	s.logger.Infow("task deleted", "id", id)
	return nil
}

func (s *TaskService) updateByItem(ctx context.Context, itemID string, p model.ItemPatch) error {
	id, err := childIDByItem(ctx, s.repo, itemID)
	if err != nil {
		return err
	}
	_, err = s.repo.UpdateChild(ctx, id, p, nil)
	return err
}

func (s *TaskService) deleteByItem(ctx context.Context, itemID string) error {
	id, err := childIDByItem(ctx, s.repo, itemID)
	if err != nil {
		return err
	}
	return s.Delete(ctx, id)
}
