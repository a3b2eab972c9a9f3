package model

import (
	"path/filepath"
	"strings"
	"time"

	"gorm.io/datatypes"
)

// Folders — допустимые папки загрузки.
var Folders = []string{"Personal", "Work", "Medical", "Financial", "Education", "Travel", "Legal", "images", "documents"}

// ImageTypes и DocumentTypes — разрешённые MIME-типы загрузок.
var (
	ImageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

	DocumentTypes = []string{
		"application/pdf",
		"text/plain",
		"application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"application/vnd.ms-excel",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	}
)

// IsImageType сообщает, что тип относится к изображениям.
func IsImageType(ct string) bool { return contains(ImageTypes, ct) }

// AllowedContentType проверяет тип по белому списку.
func AllowedContentType(ct string) bool {
	return contains(ImageTypes, ct) || contains(DocumentTypes, ct)
}

// ResolveFolder возвращает папку из белого списка или images/documents по типу содержимого.
func ResolveFolder(folder, contentType string) string {
	if folder != "" && contains(Folders, folder) {
		return folder
	}
	if IsImageType(contentType) {
		return "images"
	}
	return "documents"
}

// BaseContentType отрезает параметры: "text/plain; charset=utf-8" -> "text/plain".
func BaseContentType(ct string) string {
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return strings.ToLower(strings.TrimSpace(ct))
}

// FileExt — расширение имени файла в нижнем регистре.
func FileExt(name string) string {
	return strings.ToLower(filepath.Ext(name))
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// FileAsset — метаданные загруженного файла; содержимое лежит в блоб-хранилище.
type FileAsset struct {
	ID               string            `gorm:"primaryKey;type:varchar(36)" json:"id"`
	ItemID           string            `gorm:"type:varchar(36);not null;uniqueIndex" json:"item_id"`
	Item             *Item             `gorm:"foreignKey:ItemID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"item"`
	OriginalFilename string            `gorm:"not null" json:"original_filename"`
	StoragePath      string            `gorm:"not null" json:"storage_path"`
	StorageBucket    string            `json:"storage_bucket"`
	PublicURL        string            `json:"public_url"`
	ContentType      string            `gorm:"type:varchar(128);not null;index" json:"content_type"`
	Size             int64             `gorm:"not null" json:"size"`
	Folder           string            `gorm:"type:varchar(64);not null;index" json:"folder"`
	UploadedAt       time.Time         `gorm:"not null;index" json:"uploaded_at"`
	Metadata         datatypes.JSONMap `json:"metadata"`
}

func (FileAsset) TableName() string { return "files" }

// FileUpload — поля формы загрузки без содержимого.
type FileUpload struct {
	Filename    string  `validate:"required,max=255"`
	ContentType string  `validate:"required"`
	Size        int64   `validate:"gte=0"`
	Title       string  `validate:"max=300"`
	Content     *string `validate:"-"`
	Folder      string
	Category    string `validate:"max=64"`
	Person      string `validate:"max=128"`
}

// FolderStat — папка и число файлов в ней.
type FolderStat struct {
	Folder string `json:"folder"`
	Count  int    `json:"count"`
}

// ApplyFilePatch применяет изменения папки и меток файла.
func ApplyFilePatch(f FileAsset, p ChildPatch) FileAsset {
	if v, ok := p["folder"].(string); ok {
		f.Folder = v
	}
	if v, ok := p["metadata"].(datatypes.JSONMap); ok {
		f.Metadata = v
	}
	return f
}

// FileUpdate — изменение заголовка, папки и меток файла.
type FileUpdate struct {
	Title    *string `json:"title" validate:"omitnil,min=1,max=300"`
	Content  *string `json:"content"`
	Folder   *string `json:"folder" validate:"omitnil,oneof=Personal Work Medical Financial Education Travel Legal images documents"`
	Category *string `json:"category" validate:"omitnil,max=64"`
	Person   *string `json:"person" validate:"omitnil,max=128"`
}

// Split разделяет обновление; метки сливаются с текущими метаданными файла.
func (u FileUpdate) Split(cur datatypes.JSONMap) (ItemPatch, ChildPatch) {
	cp := ChildPatch{}
	if u.Folder != nil {
		cp["folder"] = *u.Folder
	}
	if u.Category != nil || u.Person != nil {
		meta := datatypes.JSONMap{}
		for k, v := range cur {
			meta[k] = v
		}
		if u.Category != nil {
			meta["category"] = *u.Category
		}
		if u.Person != nil {
			meta["person"] = *u.Person
		}
		cp["metadata"] = meta
	}
	return ItemPatch{Title: u.Title, Content: u.Content}, cp
}
