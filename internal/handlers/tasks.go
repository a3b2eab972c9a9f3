package handlers

import (
	"MyVault/internal/config"
	"MyVault/internal/model"
	"MyVault/internal/service"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type TaskHandler struct {
	TaskService *service.TaskService
	Logger      *zap.SugaredLogger
	Config      *config.Config
}

func NewTaskHandler(tasks *service.TaskService, logger *zap.SugaredLogger, cfg *config.Config) *TaskHandler {
	return &TaskHandler{TaskService: tasks, Logger: logger, Config: cfg}
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.TaskCreate
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	t, err := h.TaskService.Create(r.Context(), req)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	var f service.TaskFilter
	var err error
	if f.IsDone, err = queryBool(r, "is_done"); err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	if f.DueDate, err = queryDate(r, "due_date"); err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	overdue, err := queryBool(r, "overdue")
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	f.Overdue = overdue != nil && *overdue
	p, err := page(r)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	list, err := h.TaskService.List(r.Context(), f, p)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// Calendar — задачи со сроком в диапазоне дней, обе даты обязательны.
func (h *TaskHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	start, err := requiredDate(r, "start_date")
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	end, err := requiredDate(r, "end_date")
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	list, err := h.TaskService.ForDateRange(r.Context(), start, end)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	t, err := h.TaskService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req model.TaskUpdate
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	t, err := h.TaskService.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *TaskHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	t, err := h.TaskService.Toggle(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.TaskService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
