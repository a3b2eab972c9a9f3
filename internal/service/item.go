package service

import (
	"MyVault/internal/model"
	"MyVault/internal/repo"
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ItemService — операции над Item любого вида. Для видов с дочерней записью
// изменение и удаление идут через сервис вида, чтобы дочерняя часть не разошлась с Item.
type ItemService struct {
	repo     repo.ItemRepository
	logger   *zap.SugaredLogger
	children map[model.Kind]itemBound
}

func NewItemService(r repo.ItemRepository, logger *zap.SugaredLogger, children map[model.Kind]itemBound) *ItemService {
	return &ItemService{repo: r, logger: logger, children: children}
}

// Create создаёт Item без дочерней записи.
func (s *ItemService) Create(ctx context.Context, in model.ItemCreate) (*model.Item, error) {
	if err := model.Validate(in); err != nil {
		return nil, err
	}
	it := &model.Item{Kind: in.Kind, Title: in.Title, Content: in.Content}
	if err := s.repo.CreateItem(ctx, it); err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}
	s.logger.Infow("item created", "id", it.ID, "kind", it.Kind)
	return it, nil
}

// List возвращает записи, новые первыми; kind пустой — все виды.
func (s *ItemService) List(ctx context.Context, kind model.Kind, p Page) ([]model.Item, error) {
	p, err := p.normalize(DefaultLimit, MaxLimit)
	if err != nil {
		return nil, err
	}
	var conds []repo.Cond
	if kind != "" {
		if !kind.Valid() {
			return nil, model.NewValidationError("kind", "unknown kind")
		}
		conds = append(conds, repo.Cond{Field: "kind", Op: repo.Eq, Value: kind})
	}
	return s.repo.ListItems(ctx, repo.Query{
		Where:   conds,
		OrderBy: []repo.Sort{{Field: "created_at", Desc: true}},
		Limit:   p.Limit,
		Offset:  p.Offset,
	})
}

func (s *ItemService) Get(ctx context.Context, id string) (*model.Item, error) {
	return s.repo.GetItem(ctx, id)
}

// Update меняет заголовок и текст.
func (s *ItemService) Update(ctx context.Context, id string, in model.ItemUpdate) (*model.Item, error) {
	if err := model.Validate(in); err != nil {
		return nil, err
	}
	cur, err := s.repo.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if svc, ok := s.children[cur.Kind]; ok {
		err := svc.updateByItem(ctx, id, in.Patch())
		switch {
		case err == nil:
			return s.repo.GetItem(ctx, id)
		case !errors.Is(err, model.ErrNotFound):
			return nil, fmt.Errorf("update item: %w", err)
		}
		s.logger.Warnw("item has no child record", "id", id, "kind", cur.Kind)
	}
	it, err := s.repo.UpdateItem(ctx, id, in.Patch())
	if err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}
	return it, nil
}

// Delete удаляет Item вместе с дочерней записью и её содержимым.
func (s *ItemService) Delete(ctx context.Context, id string) error {
	cur, err := s.repo.GetItem(ctx, id)
	if err != nil {
		return err
	}
	if svc, ok := s.children[cur.Kind]; ok {
		err := svc.deleteByItem(ctx, id)
		switch {
		case err == nil:
			return nil
		case !errors.Is(err, model.ErrNotFound):
			return fmt.Errorf("delete item: %w", err)
		}
	}
	if err := s.repo.DeleteItem(ctx, id); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	s.logger.Infow("item deleted", "id", id, "kind", cur.Kind)
	return nil
}
