package handlers

import (
	"MyVault/internal/model"
	"MyVault/internal/service"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// errorResponse — тело ответа с ошибкой.
type errorResponse struct {
	Error  string             `json:"error"`
	Fields []model.FieldError `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError сопоставляет ошибку со статусом HTTP. 5xx логируются как error, 4xx как warn.
func writeError(w http.ResponseWriter, r *http.Request, logger *zap.SugaredLogger, err error) {
	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		logger.Warnw("validation failed", "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "validation failed", Fields: verr.Fields})
	case errors.Is(err, model.ErrValidation):
		logger.Warnw("validation failed", "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, model.ErrNotFound):
		logger.Warnw("not found", "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, model.ErrExternal):
		logger.Errorw("external service failed", "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "external service unavailable"})
	default:
		logger.Errorw("request failed", "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

// decodeJSON читает тело запроса; битый JSON — ошибка валидации.
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return model.NewValidationError("body", "invalid JSON: "+err.Error())
	}
	return nil
}

func queryBool(r *http.Request, name string) (*bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, model.NewValidationError(name, "must be true or false")
	}
	return &b, nil
}

func queryDate(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	d, err := time.Parse(service.DateLayout, raw)
	if err != nil {
		return nil, model.NewValidationError(name, "must be a date YYYY-MM-DD")
	}
	return &d, nil
}

// requiredDate — обязательный параметр даты.
func requiredDate(r *http.Request, name string) (time.Time, error) {
	d, err := queryDate(r, name)
	if err != nil {
		return time.Time{}, err
	}
	if d == nil {
		return time.Time{}, model.NewValidationError(name, "is required")
	}
	return *d, nil
}

// queryInt возвращает def, если параметра нет; явное значение вне [min, max] — ошибка.
func queryInt(r *http.Request, name string, def, min, max int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < min || n > max {
		return 0, model.NewValidationError(name, "must be an integer between "+strconv.Itoa(min)+" and "+strconv.Itoa(max))
	}
	return n, nil
}

// page разбирает limit и offset.
func page(r *http.Request) (service.Page, error) {
	limit, err := queryInt(r, "limit", service.DefaultLimit, 1, service.MaxLimit)
	if err != nil {
		return service.Page{}, err
	}
	offset, err := queryInt(r, "offset", 0, 0, int(^uint(0)>>1))
	if err != nil {
		return service.Page{}, err
	}
	return service.Page{Limit: limit, Offset: offset}, nil
}
