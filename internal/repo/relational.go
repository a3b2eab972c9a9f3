package repo

import (
	"MyVault/internal/model"
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NewRelationalStorage собирает репозитории поверх gorm. Целостность пары Item/дочерняя запись
// обеспечивает внешний ключ item_id с ON DELETE CASCADE.
func NewRelationalStorage(db *gorm.DB) *Storage {
	return &Storage{
		Backend:  "relational",
		Items:    &relItemRepo{db: db},
		Expenses: newRelChildRepo[model.Expense](db),
		Tasks:    newRelChildRepo[model.Task](db),
		Chats:    newRelChildRepo[model.ChatMessage](db),
		Files:    newRelChildRepo[model.FileAsset](db),
	}
}

var sqlOps = map[Op]string{Eq: "=", Gt: ">", Gte: ">=", Lt: "<", Lte: "<="}

var identRe = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

type childPtr[C any] interface {
	*C
	model.Child
}

type tabler interface{ TableName() string }

type relChildRepo[C any, P childPtr[C]] struct {
	db     *gorm.DB
	table  string
	entity string
}

func newRelChildRepo[C any, P childPtr[C]](db *gorm.DB) ChildRepository[C] {
	var c C
	return &relChildRepo[C, P]{
		db:     db,
		table:  any(&c).(tabler).TableName(),
		entity: string(P(&c).Kind()),
	}
}

func (r *relChildRepo[C, P]) notFound(id string) error {
	return &model.NotFoundError{Entity: r.entity, ID: id}
}

func stampNewItem(item *model.Item, kind model.Kind) {
	item.ID = uuid.NewString()
	item.Kind = kind
	if item.CreatedAt.IsZero() {
		item.CreatedAt = model.Now()
	}
	item.CreatedAt = item.CreatedAt.UTC().Truncate(time.Microsecond)
	item.UpdatedAt = item.CreatedAt
}

func (r *relChildRepo[C, P]) InsertPair(ctx context.Context, item *model.Item, child *C) error {
	p := P(child)
	stampNewItem(item, p.Kind())
	p.Bind(uuid.NewString(), item)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(item).Error; err != nil {
			return fmt.Errorf("insert item: %w", err)
		}
		if err := tx.Omit(clause.Associations).Create(child).Error; err != nil {
			return fmt.Errorf("insert %s: %w", r.entity, err)
		}
		return nil
	})
	return model.WrapStorage("insert pair", err)
}

func (r *relChildRepo[C, P]) first(tx *gorm.DB, column, value string) (*C, error) {
	var c C
	err := tx.Preload("Item").Where(r.table+"."+column+" = ?", value).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, r.notFound(value)
	}
	if err != nil {
		return nil, model.WrapStorage("read "+r.entity, err)
	}
	return &c, nil
}

func (r *relChildRepo[C, P]) ReadChild(ctx context.Context, id string) (*C, error) {
	return r.first(r.db.WithContext(ctx), "id", id)
}

func (r *relChildRepo[C, P]) FindByItem(ctx context.Context, itemID string) (*C, error) {
	return r.first(r.db.WithContext(ctx), "item_id", itemID)
}

func (r *relChildRepo[C, P]) UpdateChild(ctx context.Context, id string, ip model.ItemPatch, cp model.ChildPatch) (*C, error) {
	var out *C
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cur, err := r.first(tx, "id", id)
		if err != nil {
			return err
		}
		p := P(cur)
		if len(cp) > 0 {
			if err := tx.Model(new(C)).Where("id = ?", id).Updates(map[string]any(cp)).Error; err != nil {
				return fmt.Errorf("update %s: %w", r.entity, err)
			}
		}
		if err := touchItem(tx, p.ParentID(), p.Parent(), ip); err != nil {
			return err
		}
		out, err = r.first(tx, "id", id)
		return err
	})
	if err != nil {
		return nil, model.WrapStorage("update "+r.entity, err)
	}
	return out, nil
}

// touchItem применяет патч к Item и выставляет updated_at строго больше предыдущего.
func touchItem(tx *gorm.DB, itemID string, cur *model.Item, ip model.ItemPatch) error {
	prev := time.Time{}
	if cur != nil {
		prev = cur.UpdatedAt
	}
	cols := ip.Columns()
	cols["updated_at"] = model.NextStamp(prev, time.Now())
	res := tx.Model(&model.Item{}).Where("id = ?", itemID).Updates(cols)
	if res.Error != nil {
		return fmt.Errorf("update item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return &model.NotFoundError{Entity: "item", ID: itemID}
	}
	return nil
}

func (r *relChildRepo[C, P]) DeleteChild(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cur, err := r.first(tx, "id", id)
		if err != nil {
			return err
		}
		// дочерняя строка удаляется каскадом
		return tx.Where("id = ?", P(cur).ParentID()).Delete(&model.Item{}).Error
	})
	return model.WrapStorage("delete "+r.entity, err)
}

func (r *relChildRepo[C, P]) QueryChildren(ctx context.Context, q Query) ([]C, error) {
	db := r.db.WithContext(ctx).Model(new(C)).Preload("Item")
	joined := false
	column := func(field string) (string, error) {
		if rest, ok := strings.CutPrefix(field, "item."); ok {
			joined = true
			return qualify("items", rest)
		}
		return qualify(r.table, field)
	}

	for _, c := range q.Where {
		col, err := column(c.Field)
		if err != nil {
			return nil, err
		}
		op, ok := sqlOps[c.Op]
		if !ok {
			return nil, fmt.Errorf("unsupported operator %q", c.Op)
		}
		db = db.Where(fmt.Sprintf("%s %s ?", col, op), c.Value)
	}
	for _, s := range q.OrderBy {
		col, err := column(s.Field)
		if err != nil {
			return nil, err
		}
		db = db.Order(orderExpr(col, s.Desc))
	}
	db = db.Order(r.table + ".id")
	if joined {
		db = db.Select(r.table + ".*").Joins("JOIN items ON items.id = " + r.table + ".item_id")
	}
	if q.Limit > 0 {
		db = db.Limit(q.Limit)
	}
	if q.Offset > 0 {
		db = db.Offset(q.Offset)
	}

	out := []C{}
	if err := db.Find(&out).Error; err != nil {
		return nil, model.WrapStorage("query "+r.entity, err)
	}
	return out, nil
}

func qualify(table, field string) (string, error) {
	if !identRe.MatchString(field) {
		return "", fmt.Errorf("invalid field %q", field)
	}
	return table + "." + field, nil
}

func orderExpr(col string, desc bool) string {
	dir := "ASC"
	if desc {
		dir = "DESC"
	}
	return fmt.Sprintf("(%s IS NULL), %s %s", col, col, dir)
}

type relItemRepo struct {
	db *gorm.DB
}

func (r *relItemRepo) CreateItem(ctx context.Context, item *model.Item) error {
	stampNewItem(item, item.Kind)
	return model.WrapStorage("insert item", r.db.WithContext(ctx).Create(item).Error)
}

func (r *relItemRepo) GetItem(ctx context.Context, id string) (*model.Item, error) {
	var it model.Item
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&it).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &model.NotFoundError{Entity: "item", ID: id}
	}
	if err != nil {
		return nil, model.WrapStorage("read item", err)
	}
	return &it, nil
}

func (r *relItemRepo) ListItems(ctx context.Context, q Query) ([]model.Item, error) {
	db := r.db.WithContext(ctx).Model(&model.Item{})
	for _, c := range q.Where {
		col, err := qualify("items", c.Field)
		if err != nil {
			return nil, err
		}
		db = db.Where(fmt.Sprintf("%s %s ?", col, sqlOps[c.Op]), c.Value)
	}
	for _, s := range q.OrderBy {
		col, err := qualify("items", s.Field)
		if err != nil {
			return nil, err
		}
		db = db.Order(orderExpr(col, s.Desc))
	}
	db = db.Order("items.id")
	if q.Limit > 0 {
		db = db.Limit(q.Limit)
	}
	if q.Offset > 0 {
		db = db.Offset(q.Offset)
	}
	out := []model.Item{}
	if err := db.Find(&out).Error; err != nil {
		return nil, model.WrapStorage("list items", err)
	}
	return out, nil
}

func (r *relItemRepo) UpdateItem(ctx context.Context, id string, patch model.ItemPatch) (*model.Item, error) {
	var out *model.Item
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cur model.Item
		if err := tx.Where("id = ?", id).First(&cur).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &model.NotFoundError{Entity: "item", ID: id}
			}
			return err
		}
		if err := touchItem(tx, id, &cur, patch); err != nil {
			return err
		}
		var fresh model.Item
		if err := tx.Where("id = ?", id).First(&fresh).Error; err != nil {
			return err
		}
		out = &fresh
		return nil
	})
	if err != nil {
		return nil, model.WrapStorage("update item", err)
	}
	return out, nil
}

func (r *relItemRepo) DeleteItem(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Item{})
	if res.Error != nil {
		return model.WrapStorage("delete item", res.Error)
	}
	if res.RowsAffected == 0 {
		return &model.NotFoundError{Entity: "item", ID: id}
	}
	return nil
}
