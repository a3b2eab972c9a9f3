package handlers

import (
	"MyVault/internal/config"
	"MyVault/internal/metrics"
	"MyVault/internal/middleware"
	"MyVault/internal/service"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	Router chi.Router
}

// NewHandler разводящий для хендлеров. blobs — раздача файлового блоб-хранилища
// по /blobs/, nil если хранилище отдаёт ссылки само.
func NewHandler(
	svc *service.Services,
	logger *zap.SugaredLogger,
	config *config.Config,
	blobs http.Handler,
) *Handler {
	r := chi.NewRouter()

	r.Use(middleware.WithCORS(config.CORSOrigins))
	r.Use(middleware.WithMetrics)
	r.Use(middleware.WithGzip)
	r.Use(middleware.WithLogging)

	// Handlers
	itemHandler := NewItemHandler(svc.Items, logger, config)
	expenseHandler := NewExpenseHandler(svc.Expenses, svc.Reports, logger, config)
	taskHandler := NewTaskHandler(svc.Tasks, logger, config)
	chatHandler := NewChatHandler(svc.Chats, logger, config)
	fileHandler := NewFileHandler(svc.Files, logger, config)
	calendarHandler := NewCalendarHandler(svc.Calendar, logger, config)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "storage": config.StorageBackend})
	})
	r.Handle("/metrics", metrics.Handler())
	if blobs != nil {
		r.Handle("/blobs/*", http.StripPrefix("/blobs/", blobs))
	}

	r.Route("/api/items", func(r chi.Router) {
		r.Post("/", itemHandler.Create)
		r.Get("/", itemHandler.List)
		r.Get("/{id}", itemHandler.Get)
		r.Put("/{id}", itemHandler.Update)
		r.Delete("/{id}", itemHandler.Delete)
	})

	r.Route("/api/expenses", func(r chi.Router) {
		r.Post("/", expenseHandler.Create)
		r.Get("/", expenseHandler.List)
		r.Get("/categories", expenseHandler.Categories)
		r.Get("/report/categories", expenseHandler.CategoryReport)
		r.Get("/report/monthly/{year}/{month}", expenseHandler.MonthlyReport)
		r.Get("/{id}", expenseHandler.Get)
		r.Put("/{id}", expenseHandler.Update)
		r.Delete("/{id}", expenseHandler.Delete)
	})

	r.Route("/api/tasks", func(r chi.Router) {
		r.Post("/", taskHandler.Create)
		r.Get("/", taskHandler.List)
		r.Get("/calendar", taskHandler.Calendar)
		r.Get("/{id}", taskHandler.Get)
		r.Put("/{id}", taskHandler.Update)
		r.Post("/{id}/toggle", taskHandler.Toggle)
		r.Delete("/{id}", taskHandler.Delete)
	})

	r.Route("/api/chat", func(r chi.Router) {
		r.Post("/messages", chatHandler.Create)
		r.Get("/messages", chatHandler.List)
		r.Get("/messages/{conversation_id}", chatHandler.Conversation)
		r.Put("/messages/{id}/status", chatHandler.UpdateStatus)
		r.Delete("/messages/{id}", chatHandler.Delete)
		r.Get("/conversations", chatHandler.Conversations)
	})

	r.Route("/api/files", func(r chi.Router) {
		r.Post("/upload", fileHandler.Upload)
		r.Get("/", fileHandler.List)
		r.Get("/folders/list", fileHandler.Folders)
		r.Get("/{id}", fileHandler.Get)
		r.Put("/{id}", fileHandler.Update)
		r.Get("/{id}/download", fileHandler.Download)
		r.Delete("/{id}", fileHandler.Delete)
	})

	r.Get("/api/calendar/events", calendarHandler.Events)

	return &Handler{Router: r}
}
