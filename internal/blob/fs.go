package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// Filesystem хранит объекты в каталоге. Публичный URL указывает на Handler,
// смонтированный сервером по пути /blobs/.
type Filesystem struct {
	root    string
	baseURL string
}

var _ Store = (*Filesystem)(nil)

// NewFilesystem создаёт каталог root при необходимости.
func NewFilesystem(root, publicBaseURL string) (*Filesystem, error) {
	if root == "" {
		root = "./blobdata"
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create blob root: %w", err)
	}
	if publicBaseURL == "" {
		publicBaseURL = "/blobs"
	}
	return &Filesystem{root: root, baseURL: publicBaseURL}, nil
}

func (f *Filesystem) Driver() Driver { return DriverFilesystem }

func (f *Filesystem) Bucket() string { return filepath.Base(f.root) }

func (f *Filesystem) path(key string) string {
	return filepath.Join(f.root, filepath.FromSlash(key))
}

func (f *Filesystem) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) (Object, error) {
	if err := validKey(key); err != nil {
		return Object{}, err
	}
	p := f.path(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return Object{}, err
	}
	tmp, err := os.CreateTemp(filepath.Dir(p), ".upload-*")
	if err != nil {
		return Object{}, err
	}
	n, err := io.Copy(tmp, r)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(tmp.Name())
		return Object{}, err
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		_ = os.Remove(tmp.Name())
		return Object{}, err
	}
	return Object{Key: key, Bucket: f.Bucket(), PublicURL: joinURL(f.baseURL, key), Size: n}, nil
}

func (f *Filesystem) Delete(_ context.Context, key string) error {
	if err := validKey(key); err != nil {
		return err
	}
	err := os.Remove(f.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return ErrObjectNotFound
	}
	return err
}

// PresignGet не поддерживается: у файлового хранилища нет подписанных ссылок.
func (f *Filesystem) PresignGet(context.Context, string, time.Duration) (string, error) {
	return "", ErrUnsupported
}

// Handler отдаёт файлы хранилища; монтируется с http.StripPrefix.
func (f *Filesystem) Handler() http.Handler {
	return http.FileServer(http.Dir(f.root))
}
