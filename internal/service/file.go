package service

import (
	"MyVault/internal/blob"
	"MyVault/internal/metrics"
	"MyVault/internal/model"
	"MyVault/internal/repo"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// SignedURLExpiry — срок жизни подписанной ссылки на скачивание.
const SignedURLExpiry = time.Hour

// FileService — загруженные файлы: метаданные в хранилище, содержимое в блоб-хранилище.
type FileService struct {
	repo     repo.ChildRepository[model.FileAsset]
	blobs    blob.Store
	logger   *zap.SugaredLogger
	maxBytes int64
}

func NewFileService(r repo.ChildRepository[model.FileAsset], blobs blob.Store, logger *zap.SugaredLogger, maxBytes int64) *FileService {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	return &FileService{repo: r, blobs: blobs, logger: logger, maxBytes: maxBytes}
}

// MaxBytes — предельный размер загрузки.
func (s *FileService) MaxBytes() int64 { return s.maxBytes }

// FileFilter — фильтры списка файлов.
type FileFilter struct {
	Folder      string
	ContentType string
}

// sniff определяет тип содержимого, если клиент его не прислал.
func sniff(declared string, data []byte) string {
	ct := model.BaseContentType(declared)
	if ct == "" || ct == "application/octet-stream" {
		ct = model.BaseContentType(mimetype.Detect(data).String())
	}
	return ct
}

// Upload проверяет файл, кладёт содержимое в блоб-хранилище и сохраняет FileAsset с Item.
// Если запись не удалось сохранить, загруженный объект удаляется.
func (s *FileService) Upload(ctx context.Context, in model.FileUpload, r io.Reader) (*model.FileAsset, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return nil, model.NewValidationError("file", "cannot read upload: "+err.Error())
	}
	if int64(len(data)) > s.maxBytes {
		return nil, model.NewValidationError("file",
			fmt.Sprintf("exceeds maximum allowed size of %dMB", s.maxBytes>>20))
	}
	in.ContentType = sniff(in.ContentType, data)
	in.Size = int64(len(data))
	if !model.AllowedContentType(in.ContentType) {
		return nil, model.NewValidationError("file", "file type "+in.ContentType+" not allowed")
	}
	if err := model.Validate(in); err != nil {
		return nil, err
	}

	folder := model.ResolveFolder(in.Folder, in.ContentType)
	key := folder + "/" + uuid.NewString() + model.FileExt(in.Filename)
	obj, err := s.blobs.Put(ctx, key, bytes.NewReader(data), in.Size, in.ContentType)
	metrics.RecordStorageOp(string(s.blobs.Driver()), "put", err)
	if err != nil {
		metrics.RecordUpload(folder, metrics.StatusError, 0)
		return nil, &model.ExternalError{Service: "blob", Err: err}
	}

	title := in.Title
	if title == "" {
		title = in.Filename
	}
	if title == "" {
		title = "Uploaded file"
	}
	category, person := in.Category, in.Person
	if category == "" {
		category = "other"
	}
	if person == "" {
		person = "Unknown"
	}
	now := model.Now()
	item := &model.Item{Title: title, Content: in.Content, CreatedAt: now}
	f := &model.FileAsset{
		OriginalFilename: in.Filename,
		StoragePath:      obj.Key,
		StorageBucket:    obj.Bucket,
		PublicURL:        obj.PublicURL,
		ContentType:      in.ContentType,
		Size:             in.Size,
		Folder:           folder,
		UploadedAt:       now,
		Metadata:         datatypes.JSONMap{"category": category, "person": person},
	}
	if err := s.repo.InsertPair(ctx, item, f); err != nil {
		if derr := s.blobs.Delete(ctx, obj.Key); derr != nil {
			s.logger.Warnw("cleanup of orphaned blob failed", "key", obj.Key, "error", derr)
		}
		metrics.RecordUpload(folder, metrics.StatusError, 0)
		return nil, fmt.Errorf("create file: %w", err)
	}
	metrics.RecordUpload(folder, metrics.StatusSuccess, in.Size)
	s.logger.Infow("file uploaded", "id", f.ID, "key", obj.Key, "size", in.Size, "content_type", in.ContentType)
	return s.repo.ReadChild(ctx, f.ID)
}

// List возвращает файлы, последние загруженные первыми.
func (s *FileService) List(ctx context.Context, f FileFilter, p Page) ([]model.FileAsset, error) {
	p, err := p.normalize(DefaultLimit, MaxLimit)
	if err != nil {
		return nil, err
	}
	var conds []repo.Cond
	if f.Folder != "" {
		conds = append(conds, repo.Cond{Field: "folder", Op: repo.Eq, Value: f.Folder})
	}
	if f.ContentType != "" {
		conds = append(conds, repo.Cond{Field: "content_type", Op: repo.Eq, Value: f.ContentType})
	}
	return s.repo.QueryChildren(ctx, repo.Query{
		Where:   conds,
		OrderBy: []repo.Sort{{Field: "uploaded_at", Desc: true}},
		Limit:   p.Limit,
		Offset:  p.Offset,
	})
}

// Folders — все допустимые папки с числом файлов в каждой.
func (s *FileService) Folders(ctx context.Context) ([]model.FolderStat, error) {
	files, err := s.repo.QueryChildren(ctx, repo.Query{})
	if err != nil {
		return nil, err
	}
	counts := map[string]int{}
	for _, f := range files {
		counts[f.Folder]++
	}
	out := make([]model.FolderStat, 0, len(model.Folders))
	for _, name := range model.Folders {
		out = append(out, model.FolderStat{Folder: name, Count: counts[name]})
	}
	return out, nil
}

func (s *FileService) Get(ctx context.Context, id string) (*model.FileAsset, error) {
	return s.repo.ReadChild(ctx, id)
}

// Update меняет заголовок, текст, папку и метки файла. Содержимое не трогается.
func (s *FileService) Update(ctx context.Context, id string, in model.FileUpdate) (*model.FileAsset, error) {
	if err := model.Validate(in); err != nil {
		return nil, err
	}
	cur, err := s.repo.ReadChild(ctx, id)
	if err != nil {
		return nil, err
	}
	ip, cp := in.Split(cur.Metadata)
	f, err := s.repo.UpdateChild(ctx, id, ip, cp)
	if err != nil {
		return nil, fmt.Errorf("update file: %w", err)
	}
	return f, nil
}

// DownloadURL возвращает публичную ссылку или, при signed, подписанную на час.
func (s *FileService) DownloadURL(ctx context.Context, id string, signed bool) (string, error) {
	f, err := s.repo.ReadChild(ctx, id)
	if err != nil {
		return "", err
	}
	if f.StoragePath == "" {
		return "", &model.NotFoundError{Entity: "file storage path", ID: id}
	}
	if !signed {
		if f.PublicURL == "" {
			return "", &model.NotFoundError{Entity: "file public url", ID: id}
		}
		return f.PublicURL, nil
	}
	u, err := s.blobs.PresignGet(ctx, f.StoragePath, SignedURLExpiry)
	metrics.RecordStorageOp(string(s.blobs.Driver()), "presign", err)
	if err != nil {
		return "", &model.ExternalError{Service: "blob", Err: err}
	}
	return u, nil
}

// Delete удаляет запись с Item, затем содержимое. Сбой блоб-хранилища только логируется.
func (s *FileService) Delete(ctx context.Context, id string) error {
	f, err := s.repo.ReadChild(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteChild(ctx, id); err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	if f.StoragePath != "" {
		err := s.blobs.Delete(ctx, f.StoragePath)
		metrics.RecordStorageOp(string(s.blobs.Driver()), "delete", err)
		switch {
		case errors.Is(err, blob.ErrObjectNotFound):
			s.logger.Warnw("blob already gone", "id", id, "key", f.StoragePath)
		case err != nil:
			s.logger.Warnw("blob delete failed", "id", id, "key", f.StoragePath, "error", err)
		}
	}
	s.logger.Infow("file deleted", "id", id)
	return nil
}

func (s *FileService) updateByItem(ctx context.Context, itemID string, p model.ItemPatch) error {
	id, err := childIDByItem(ctx, s.repo, itemID)
	if err != nil {
		return err
	}
	_, err = s.repo.UpdateChild(ctx, id, p, nil)
	return err
}

func (s *FileService) deleteByItem(ctx context.Context, itemID string) error {
	id, err := childIDByItem(ctx, s.repo, itemID)
	if err != nil {
		return err
	}
	return s.Delete(ctx, id)
}
