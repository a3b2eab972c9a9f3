package service

import (
	"MyVault/internal/model"
	"MyVault/internal/repo"
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// ExpenseService — расходы и доходы.
type ExpenseService struct {
	repo   repo.ChildRepository[model.Expense]
	logger *zap.SugaredLogger
}

func NewExpenseService(r repo.ChildRepository[model.Expense], logger *zap.SugaredLogger) *ExpenseService {
	return &ExpenseService{repo: r, logger: logger}
}

// ExpenseFilter — фильтры списка. Даты включительные.
type ExpenseFilter struct {
	IsIncome  *bool
	Category  *model.Category
	StartDate *time.Time
	EndDate   *time.Time
}

func (s *ExpenseService) Create(ctx context.Context, in model.ExpenseCreate) (*model.Expense, error) {
	if err := model.Validate(in); err != nil {
		return nil, err
	}
	occurred := model.Now()
	if in.OccurredOn != nil {
		occurred = in.OccurredOn.UTC().Truncate(time.Microsecond)
	}
	item := &model.Item{Title: in.Title, Content: in.Content}
	e := &model.Expense{
		Amount:     in.Amount.Round(2),
		Category:   in.Category,
		IsIncome:   in.IsIncome,
		OccurredOn: occurred,
	}
	if err := s.repo.InsertPair(ctx, item, e); err != nil {
		return nil, fmt.Errorf("create expense: %w", err)
	}
	s.logger.Infow("expense created", "id", e.ID, "item_id", e.ItemID, "category", e.Category)
	return s.repo.ReadChild(ctx, e.ID)
}

func (s *ExpenseService) conditions(f ExpenseFilter) ([]repo.Cond, error) {
	var conds []repo.Cond
	if f.IsIncome != nil {
		conds = append(conds, repo.Cond{Field: "is_income", Op: repo.Eq, Value: *f.IsIncome})
	}
	if f.Category != nil {
		if !f.Category.Valid() {
			return nil, model.NewValidationError("category", "unknown category")
		}
		conds = append(conds, repo.Cond{Field: "category", Op: repo.Eq, Value: *f.Category})
	}
	if f.StartDate != nil && f.EndDate != nil {
		if _, _, err := dayRange(*f.StartDate, *f.EndDate); err != nil {
			return nil, err
		}
	}
	if f.StartDate != nil {
		conds = append(conds, repo.Cond{Field: "occurred_on", Op: repo.Gte, Value: dayStart(*f.StartDate)})
	}
	if f.EndDate != nil {
		conds = append(conds, repo.Cond{Field: "occurred_on", Op: repo.Lt, Value: dayStart(*f.EndDate).AddDate(0, 0, 1)})
	}
	return conds, nil
}

// List возвращает расходы, самые свежие по occurred_on первыми.
func (s *ExpenseService) List(ctx context.Context, f ExpenseFilter, p Page) ([]model.Expense, error) {
	p, err := p.normalize(DefaultLimit, MaxLimit)
	if err != nil {
		return nil, err
	}
	conds, err := s.conditions(f)
	if err != nil {
		return nil, err
	}
	return s.repo.QueryChildren(ctx, repo.Query{
		Where:   conds,
		OrderBy: []repo.Sort{{Field: "occurred_on", Desc: true}},
		Limit:   p.Limit,
		Offset:  p.Offset,
	})
}

// ForDateRange — все расходы за включительный диапазон дней, по возрастанию даты.
// limit <= 0 снимает ограничение.
func (s *ExpenseService) ForDateRange(ctx context.Context, start, end time.Time, limit int) ([]model.Expense, error) {
	from, to, err := dayRange(start, end)
	if err != nil {
		return nil, err
	}
	return s.repo.QueryChildren(ctx, repo.Query{
		Where: []repo.Cond{
			{Field: "occurred_on", Op: repo.Gte, Value: from},
			{Field: "occurred_on", Op: repo.Lt, Value: to},
		},
		OrderBy: []repo.Sort{{Field: "occurred_on"}},
		Limit:   limit,
	})
}

func (s *ExpenseService) Get(ctx context.Context, id string) (*model.Expense, error) {
	return s.repo.ReadChild(ctx, id)
}

// Update применяет только заданные поля и возвращает свежую запись.
func (s *ExpenseService) Update(ctx context.Context, id string, in model.ExpenseUpdate) (*model.Expense, error) {
	if err := model.Validate(in); err != nil {
		return nil, err
	}
	ip, cp := in.Split()
	e, err := s.repo.UpdateChild(ctx, id, ip, cp)
	if err != nil {
		return nil, fmt.Errorf("update expense: %w", err)
	}
	return e, nil
}

func (s *ExpenseService) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteChild(ctx, id); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	s.logger.Infow("expense deleted", "id", id)
	return nil
}

// Categories — закрытый список категорий.
func (s *ExpenseService) Categories() []model.Category {
	return append([]model.Category(nil), model.Categories...)
}

func (s *ExpenseService) updateByItem(ctx context.Context, itemID string, p model.ItemPatch) error {
	id, err := childIDByItem(ctx, s.repo, itemID)
	if err != nil {
		return err
	}
	_, err = s.repo.UpdateChild(ctx, id, p, nil)
	return err
}

func (s *ExpenseService) deleteByItem(ctx context.Context, itemID string) error {
	id, err := childIDByItem(ctx, s.repo, itemID)
	if err != nil {
		return err
	}
	return s.Delete(ctx, id)
}
