package handlers

import (
	"MyVault/internal/config"
	"MyVault/internal/model"
	"MyVault/internal/service"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// multipartOverhead — запас на поля формы сверх лимита файла.
const multipartOverhead = 1 << 20

// FileHandler — загрузка, выдача и удаление файлов.
type FileHandler struct {
	FileService *service.FileService
	Logger      *zap.SugaredLogger
	Config      *config.Config
}

func NewFileHandler(files *service.FileService, logger *zap.SugaredLogger, cfg *config.Config) *FileHandler {
	return &FileHandler{FileService: files, Logger: logger, Config: cfg}
}

// Upload принимает multipart/form-data: file, title, content, folder, category, person.
func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	maxBytes := h.FileService.MaxBytes()
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+multipartOverhead)

	if err := r.ParseMultipartForm(maxBytes + multipartOverhead); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeError(w, r, h.Logger, model.NewValidationError("file",
				fmt.Sprintf("exceeds maximum allowed size of %dMB", maxBytes>>20)))
			return
		}
		writeError(w, r, h.Logger, model.NewValidationError("body", "invalid multipart form"))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, h.Logger, model.NewValidationError("file", "is required"))
		return
	}
	defer file.Close()

	in := model.FileUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Title:       r.FormValue("title"),
		Folder:      r.FormValue("folder"),
		Category:    r.FormValue("category"),
		Person:      r.FormValue("person"),
	}
	if c := r.FormValue("content"); c != "" {
		in.Content = &c
	}

	f, err := h.FileService.Upload(r.Context(), in, file)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, f)
}

// List — файлы, фильтры ?folder= и ?content_type=.
func (h *FileHandler) List(w http.ResponseWriter, r *http.Request) {
	p, err := page(r)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	q := r.URL.Query()
	list, err := h.FileService.List(r.Context(), service.FileFilter{
		Folder:      q.Get("folder"),
		ContentType: q.Get("content_type"),
	}, p)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *FileHandler) Folders(w http.ResponseWriter, r *http.Request) {
	list, err := h.FileService.Folders(r.Context())
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *FileHandler) Get(w http.ResponseWriter, r *http.Request) {
	f, err := h.FileService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (h *FileHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req model.FileUpdate
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	f, err := h.FileService.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

// Download перенаправляет на публичный адрес; с ?signed=true отдаёт подписанную ссылку.
func (h *FileHandler) Download(w http.ResponseWriter, r *http.Request) {
	signed, err := queryBool(r, "signed")
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	wantSigned := signed != nil && *signed
	u, err := h.FileService.DownloadURL(r.Context(), chi.URLParam(r, "id"), wantSigned)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	if wantSigned {
		writeJSON(w, http.StatusOK, map[string]string{"download_url": u})
		return
	}
	http.Redirect(w, r, u, http.StatusTemporaryRedirect)
}

func (h *FileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.FileService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
