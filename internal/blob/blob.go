// Package blob — хранилище содержимого загруженных файлов: ключ -> объект с публичным URL.
package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

var (
	// ErrObjectNotFound — объекта с таким ключом нет.
	ErrObjectNotFound = errors.New("blob: object not found")
	// ErrUnsupported — драйвер не поддерживает операцию.
	ErrUnsupported = errors.New("blob: operation not supported")
)

// Driver — идентификатор реализации.
type Driver string

const (
	DriverFilesystem Driver = "fs"
	DriverS3         Driver = "s3"
	DriverMemory     Driver = "memory"
)

// Object описывает сохранённый объект.
type Object struct {
	Key       string
	Bucket    string
	PublicURL string
	Size      int64
}

// Store — блоб-хранилище.
type Store interface {
	Driver() Driver
	// Bucket — имя контейнера, в котором лежат объекты.
	Bucket() string
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (Object, error)
	// Delete удаляет объект; ErrObjectNotFound, если его нет.
	Delete(ctx context.Context, key string) error
	// PresignGet возвращает временную ссылку на скачивание.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// Config — параметры выбора драйвера.
type Config struct {
	Driver        Driver
	FSRoot        string
	PublicBaseURL string
	S3            S3Config
}

// Open выбирает реализацию по cfg.Driver (по умолчанию fs).
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Driver {
	case "", DriverFilesystem:
		return NewFilesystem(cfg.FSRoot, cfg.PublicBaseURL)
	case DriverS3:
		return NewS3(ctx, cfg.S3)
	case DriverMemory:
		return NewMemory(cfg.PublicBaseURL), nil
	default:
		return nil, fmt.Errorf("unknown blob driver %s", cfg.Driver)
	}
}

// validKey отсекает пустые ключи, абсолютные пути и выход за пределы корня.
func validKey(key string) error {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "..") || strings.Contains(key, "\\") {
		return fmt.Errorf("invalid blob key %q", key)
	}
	return nil
}

func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + key
}
