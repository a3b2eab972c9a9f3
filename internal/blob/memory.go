package blob

import (
	"context"
	"io"
	"net/url"
	"strconv"
	"sync"
	"time"
)

// Memory хранит объекты в памяти процесса. Используется в тестах.
type Memory struct {
	mu      sync.RWMutex
	objs    map[string][]byte
	baseURL string
}

var _ Store = (*Memory)(nil)

func NewMemory(publicBaseURL string) *Memory {
	if publicBaseURL == "" {
		publicBaseURL = "memory://blobs"
	}
	return &Memory{objs: map[string][]byte{}, baseURL: publicBaseURL}
}

func (m *Memory) Driver() Driver { return DriverMemory }

func (m *Memory) Bucket() string { return "memory" }

func (m *Memory) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) (Object, error) {
	if err := validKey(key); err != nil {
		return Object{}, err
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return Object{}, err
	}
	m.mu.Lock()
	m.objs[key] = b
	m.mu.Unlock()
	return Object{Key: key, Bucket: m.Bucket(), PublicURL: joinURL(m.baseURL, key), Size: int64(len(b))}, nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objs[key]; !ok {
		return ErrObjectNotFound
	}
	delete(m.objs, key)
	return nil
}

func (m *Memory) PresignGet(_ context.Context, key string, expiry time.Duration) (string, error) {
	m.mu.RLock()
	_, ok := m.objs[key]
	m.mu.RUnlock()
	if !ok {
		return "", ErrObjectNotFound
	}
	q := url.Values{"expires": {strconv.FormatInt(time.Now().Add(expiry).Unix(), 10)}}
	return joinURL(m.baseURL, key) + "?" + q.Encode(), nil
}

// Has сообщает, есть ли объект (для тестов).
func (m *Memory) Has(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.objs[key]
	return ok
}
