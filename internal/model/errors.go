package model

import (
	"errors"
	"fmt"
	"strings"
)

// Базовые категории ошибок. Хендлеры сопоставляют их со статусами HTTP через errors.Is.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrStorage    = errors.New("storage failure")
	ErrExternal   = errors.New("external service failure")
)

// FieldError — нарушение правила для одного поля.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError — набор нарушений входных данных.
type ValidationError struct {
	Fields []FieldError
}

// NewValidationError создаёт ошибку с одним нарушением.
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: msg}}}
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NotFoundError — запись указанного вида не найдена.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// StorageError оборачивает ошибку хранилища с указанием операции.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

// Unwrap отдаёт и исходную ошибку, и ErrStorage.
func (e *StorageError) Unwrap() []error { return []error{ErrStorage, e.Err} }

// WrapStorage оборачивает err в StorageError; nil остаётся nil, NotFound не переупаковывается.
func WrapStorage(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrStorage) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

// ExternalError — сбой внешнего сервиса (блоб-хранилище).
type ExternalError struct {
	Service string
	Err     error
}

func (e *ExternalError) Error() string {
	return fmt.Sprintf("%s: %v", e.Service, e.Err)
}

func (e *ExternalError) Unwrap() []error { return []error{ErrExternal, e.Err} }
