// Package docstore — минимальный контракт документного хранилища: чтение по id,
// выборка с фильтрами и сортировкой, атомарная запись пакета операций.
package docstore

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound возвращается Get для отсутствующего документа.
var ErrNotFound = errors.New("docstore: document not found")

// Document — документ в канонической форме: string, bool, float64/int64, nil,
// вложенные Document/map[string]any и []any.
type Document map[string]any

// OpKind — вид операции в пакете.
type OpKind int

const (
	OpSet OpKind = iota
	OpDelete
)

// Op — одна операция пакета. Set полностью заменяет документ.
type Op struct {
	Kind       OpKind
	Collection string
	ID         string
	Doc        Document
}

func Set(collection, id string, doc Document) Op {
	return Op{Kind: OpSet, Collection: collection, ID: id, Doc: doc}
}

func Delete(collection, id string) Op {
	return Op{Kind: OpDelete, Collection: collection, ID: id}
}

// Store — документное хранилище.
type Store interface {
	// Get возвращает документ или ErrNotFound.
	Get(ctx context.Context, collection, id string) (Document, error)
	// Find возвращает документы коллекции, удовлетворяющие запросу.
	Find(ctx context.Context, collection string, q Query) ([]Document, error)
	// Commit применяет все операции атомарно: либо все, либо ни одной.
	Commit(ctx context.Context, ops []Op) error
	Close(ctx context.Context) error
}

// Locker — необязательная возможность хранилища: эксклюзивная блокировка по ключу.
type Locker interface {
	WithLock(ctx context.Context, key string, ttl time.Duration, fn func(ctx context.Context) error) error
}

// TimeLayout — формат хранения времени. Фиксированная ширина сохраняет порядок при сравнении строк.
const TimeLayout = "2006-01-02T15:04:05.000000000Z"

// FormatTime приводит время к строке хранения.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// ParseTime разбирает строку хранения; поддерживает и RFC 3339.
func ParseTime(s string) (time.Time, error) {
	if t, err := time.Parse(TimeLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}
