package repo

import (
	"MyVault/internal/model"
	"context"
)

// Op — оператор условия выборки.
type Op string

const (
	Eq  Op = "eq"
	Gt  Op = "gt"
	Gte Op = "gte"
	Lt  Op = "lt"
	Lte Op = "lte"
)

// Cond — условие на поле дочерней записи. Поля Item адресуются префиксом "item.",
// например "item.created_at".
type Cond struct {
	Field string
	Op    Op
	Value any
}

// Sort — ключ сортировки; записи без значения всегда идут последними.
type Sort struct {
	Field string
	Desc  bool
}

// Query — выборка дочерних записей или Item.
type Query struct {
	Where   []Cond
	OrderBy []Sort
	Limit   int
	Offset  int
}

// ChildRepository — контракт адаптера хранения для одного вида дочерних записей.
// Item и дочерняя запись создаются и удаляются вместе.
type ChildRepository[C any] interface {
	// InsertPair присваивает идентификаторы и атомарно сохраняет Item и дочернюю запись.
	InsertPair(ctx context.Context, item *model.Item, child *C) error
	// ReadChild возвращает запись с вложенным Item или NotFound.
	ReadChild(ctx context.Context, id string) (*C, error)
	// FindByItem ищет запись по id родительского Item.
	FindByItem(ctx context.Context, itemID string) (*C, error)
	// UpdateChild применяет изменения Item и дочерней записи, обновляет updated_at
	// и возвращает свежую запись.
	UpdateChild(ctx context.Context, id string, ip model.ItemPatch, cp model.ChildPatch) (*C, error)
	// DeleteChild удаляет запись вместе с Item.
	DeleteChild(ctx context.Context, id string) error
	QueryChildren(ctx context.Context, q Query) ([]C, error)
}

// ItemRepository — операции над Item без дочерней части.
type ItemRepository interface {
	CreateItem(ctx context.Context, item *model.Item) error
	GetItem(ctx context.Context, id string) (*model.Item, error)
	// ListItems поддерживает условия и сортировку по полям Item без префикса.
	ListItems(ctx context.Context, q Query) ([]model.Item, error)
	UpdateItem(ctx context.Context, id string, patch model.ItemPatch) (*model.Item, error)
	// DeleteItem удаляет Item и все привязанные к нему дочерние записи.
	DeleteItem(ctx context.Context, id string) error
}

// Storage — набор репозиториев одного бэкенда.
type Storage struct {
	Backend  string
	Items    ItemRepository
	Expenses ChildRepository[model.Expense]
	Tasks    ChildRepository[model.Task]
	Chats    ChildRepository[model.ChatMessage]
	Files    ChildRepository[model.FileAsset]
}
