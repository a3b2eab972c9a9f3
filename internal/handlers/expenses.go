package handlers

import (
	"MyVault/internal/config"
	"MyVault/internal/model"
	"MyVault/internal/service"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ExpenseHandler — расходы, доходы и отчёты по ним.
type ExpenseHandler struct {
	ExpenseService *service.ExpenseService
	ReportService  *service.ReportService
	Logger         *zap.SugaredLogger
	Config         *config.Config
}

func NewExpenseHandler(expenses *service.ExpenseService, reports *service.ReportService, logger *zap.SugaredLogger, cfg *config.Config) *ExpenseHandler {
	return &ExpenseHandler{ExpenseService: expenses, ReportService: reports, Logger: logger, Config: cfg}
}

func (h *ExpenseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.ExpenseCreate
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	e, err := h.ExpenseService.Create(r.Context(), req)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (h *ExpenseHandler) filter(r *http.Request) (service.ExpenseFilter, error) {
	var f service.ExpenseFilter
	var err error
	if f.IsIncome, err = queryBool(r, "is_income"); err != nil {
		return f, err
	}
	if c := r.URL.Query().Get("category"); c != "" {
		cat := model.Category(c)
		f.Category = &cat
	}
	if f.StartDate, err = queryDate(r, "start_date"); err != nil {
		return f, err
	}
	if f.EndDate, err = queryDate(r, "end_date"); err != nil {
		return f, err
	}
	return f, nil
}

func (h *ExpenseHandler) List(w http.ResponseWriter, r *http.Request) {
	f, err := h.filter(r)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	p, err := page(r)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	list, err := h.ExpenseService.List(r.Context(), f, p)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *ExpenseHandler) Categories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.ExpenseService.Categories())
}

func (h *ExpenseHandler) Get(w http.ResponseWriter, r *http.Request) {
	e, err := h.ExpenseService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (h *ExpenseHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req model.ExpenseUpdate
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	e, err := h.ExpenseService.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (h *ExpenseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.ExpenseService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CategoryReport — суммы по категориям за необязательный диапазон дат.
func (h *ExpenseHandler) CategoryReport(w http.ResponseWriter, r *http.Request) {
	start, err := queryDate(r, "start_date")
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	end, err := queryDate(r, "end_date")
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	rep, err := h.ReportService.CategoryReport(r.Context(), start, end)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (h *ExpenseHandler) MonthlyReport(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		writeError(w, r, h.Logger, model.NewValidationError("year", "must be an integer"))
		return
	}
	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil {
		writeError(w, r, h.Logger, model.NewValidationError("month", "must be an integer"))
		return
	}
	rep, err := h.ReportService.MonthlyReport(r.Context(), year, month)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}
