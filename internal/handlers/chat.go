package handlers

import (
	"MyVault/internal/config"
	"MyVault/internal/model"
	"MyVault/internal/service"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ChatHandler — сообщения чата и диалоги.
type ChatHandler struct {
	ChatService *service.ChatService
	Logger      *zap.SugaredLogger
	Config      *config.Config
}

func NewChatHandler(chats *service.ChatService, logger *zap.SugaredLogger, cfg *config.Config) *ChatHandler {
	return &ChatHandler{ChatService: chats, Logger: logger, Config: cfg}
}

// statusRequest — тело смены статуса.
type statusRequest struct {
	Status model.ChatStatus `json:"status"`
}

func (h *ChatHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.ChatCreate
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	m, err := h.ChatService.Create(r.Context(), req)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func (h *ChatHandler) list(w http.ResponseWriter, r *http.Request, conversationID string) {
	p, err := page(r)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	list, err := h.ChatService.List(r.Context(), conversationID, p)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// List — сообщения, фильтр ?conversation_id=.
func (h *ChatHandler) List(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, r.URL.Query().Get("conversation_id"))
}

// Conversation — сообщения одного диалога.
func (h *ChatHandler) Conversation(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, chi.URLParam(r, "conversation_id"))
}

func (h *ChatHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	m, err := h.ChatService.UpdateStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *ChatHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.ChatService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ChatHandler) Conversations(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", service.DefaultConversationLimit, 1, service.MaxConversationLimit)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	list, err := h.ChatService.Conversations(r.Context(), limit)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}
