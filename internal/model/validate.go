package model

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		// Сумма проверяется после округления до копеек, как она будет сохранена.
		v.RegisterCustomTypeFunc(func(f reflect.Value) any {
			if d, ok := f.Interface().(decimal.Decimal); ok {
				fl, _ := d.Round(2).Float64()
				return fl
			}
			return nil
		}, decimal.Decimal{})
		_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
			return Category(fl.Field().String()).Valid()
		})
		_ = v.RegisterValidation("kind", func(fl validator.FieldLevel) bool {
			return Kind(fl.Field().String()).Valid()
		})
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "" || name == "-" {
				return strings.ToLower(f.Name)
			}
			return name
		})
		validate = v
	})
	return validate
}

// Validate проверяет структуру по тегам validate и возвращает *ValidationError.
func Validate(s any) error {
	err := validatorInstance().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &ValidationError{Fields: []FieldError{{Field: "body", Message: err.Error()}}}
	}
	out := &ValidationError{}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Message: ruleMessage(fe)})
	}
	return out
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	case "category":
		return "unknown category"
	case "kind":
		return "unknown kind"
	}
	return "is invalid"
}

// ItemCreate — создание записи без дочерней части.
type ItemCreate struct {
	Kind    Kind    `json:"kind" validate:"required,kind"`
	Title   string  `json:"title" validate:"required,max=300"`
	Content *string `json:"content"`
}

// ItemUpdate — частичное обновление заголовка и текста.
type ItemUpdate struct {
	Title   *string `json:"title" validate:"omitnil,min=1,max=300"`
	Content *string `json:"content"`
}

func (u ItemUpdate) Patch() ItemPatch { return ItemPatch{Title: u.Title, Content: u.Content} }
