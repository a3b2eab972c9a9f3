package handlers

import (
	"MyVault/internal/config"
	"MyVault/internal/service"
	"net/http"

	"go.uber.org/zap"
)

type CalendarHandler struct {
	CalendarService *service.CalendarService
	Logger          *zap.SugaredLogger
	Config          *config.Config
}

func NewCalendarHandler(calendar *service.CalendarService, logger *zap.SugaredLogger, cfg *config.Config) *CalendarHandler {
	return &CalendarHandler{CalendarService: calendar, Logger: logger, Config: cfg}
}

// Events — задачи и расходы за диапазон дней, ?event_type=tasks|expenses|all.
func (h *CalendarHandler) Events(w http.ResponseWriter, r *http.Request) {
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
	ev, err := h.CalendarService.Events(r.Context(), start, end, r.URL.Query().Get("event_type"))
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}
