package docstore

import (
	"context"
	"sync"
	"time"
)

// Memory — хранилище в памяти процесса. Используется в тестах и для локального запуска.
type Memory struct {
	mu    sync.RWMutex
	colls map[string]map[string]Document

	locksMu sync.Mutex
	locks   map[string]chan struct{}

	// failNext — если задано, следующий Commit вернёт эту ошибку (для тестов отказов).
	failNext error
}

var (
	_ Store  = (*Memory)(nil)
	_ Locker = (*Memory)(nil)
)

func NewMemory() *Memory {
	return &Memory{
		colls: map[string]map[string]Document{},
		locks: map[string]chan struct{}{},
	}
}

func (m *Memory) Get(_ context.Context, collection, id string) (Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.colls[collection][id]
	if !ok {
		return nil, ErrNotFound
	}
	return Clone(d), nil
}

func (m *Memory) Find(_ context.Context, collection string, q Query) ([]Document, error) {
	m.mu.RLock()
	docs := make([]Document, 0, len(m.colls[collection]))
	for _, d := range m.colls[collection] {
		docs = append(docs, Clone(d))
	}
	m.mu.RUnlock()
	return Apply(docs, q), nil
}

func (m *Memory) Commit(_ context.Context, ops []Op) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failNext; err != nil {
		m.failNext = nil
		return err
	}
	for _, op := range ops {
		coll, ok := m.colls[op.Collection]
		if !ok {
			coll = map[string]Document{}
			m.colls[op.Collection] = coll
		}
		switch op.Kind {
		case OpSet:
			coll[op.ID] = Clone(op.Doc)
		case OpDelete:
			delete(coll, op.ID)
		}
	}
	return nil
}

// FailNextCommit заставляет следующий Commit завершиться ошибкой без изменений.
func (m *Memory) FailNextCommit(err error) {
	m.mu.Lock()
	m.failNext = err
	m.mu.Unlock()
}

// Put записывает документ в обход пакетов. Нужен тестам для подготовки «испорченных» данных.
func (m *Memory) Put(collection, id string, doc Document) {
	_ = m.Commit(context.Background(), []Op{Set(collection, id, doc)})
}

func (m *Memory) Close(context.Context) error { return nil }

// WithLock — блокировка по ключу внутри процесса; ttl не используется.
func (m *Memory) WithLock(ctx context.Context, key string, _ time.Duration, fn func(ctx context.Context) error) error {
	m.locksMu.Lock()
	ch, ok := m.locks[key]
	if !ok {
		ch = make(chan struct{}, 1)
		m.locks[key] = ch
	}
	m.locksMu.Unlock()

	select {
	case ch <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-ch }()
	return fn(ctx)
}

// Clone делает глубокую копию документа.
func Clone(d Document) Document {
	if d == nil {
		return nil
	}
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case Document:
		return map[string]any(Clone(t))
	case map[string]any:
		return map[string]any(Clone(t))
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = cloneValue(t[i])
		}
		return out
	}
	return v
}
