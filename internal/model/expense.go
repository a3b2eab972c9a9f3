package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category — категория расхода.
type Category string

const (
	CategoryTransport  Category = "transport"
	CategorySavings    Category = "savings"
	CategoryGrocery    Category = "grocery"
	CategoryVegetables Category = "vegetables"
	CategoryOther      Category = "other"
	CategoryPersonal   Category = "personal"
	CategoryClothing   Category = "clothing"
	CategoryFun        Category = "fun"
	CategoryFuel       Category = "fuel"
	CategoryRestaurant Category = "restaurant"
	CategorySnacks     Category = "snacks"
	CategoryHealth     Category = "health"
)

// Categories — закрытый список категорий в порядке отображения.
var Categories = []Category{
	CategoryTransport, CategorySavings, CategoryGrocery, CategoryVegetables,
	CategoryOther, CategoryPersonal, CategoryClothing, CategoryFun,
	CategoryFuel, CategoryRestaurant, CategorySnacks, CategoryHealth,
}

func (c Category) Valid() bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

// Expense — расход или доход, привязанный к Item вида expense.
type Expense struct {
	ID         string          `gorm:"primaryKey;type:varchar(36)" json:"id"`
	ItemID     string          `gorm:"type:varchar(36);not null;uniqueIndex" json:"item_id"`
	Item       *Item           `gorm:"foreignKey:ItemID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"item"`
	Amount     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	Category   Category        `gorm:"type:varchar(32);not null;index" json:"category"`
	IsIncome   bool            `gorm:"not null;index" json:"is_income"`
	OccurredOn time.Time       `gorm:"not null;index" json:"occurred_on"`
}

func (Expense) TableName() string { return "expenses" }

// ExpenseCreate — входные данные для создания расхода.
type ExpenseCreate struct {
	Title      string          `json:"title" validate:"required,max=300"`
	Content    *string         `json:"content"`
	Amount     decimal.Decimal `json:"amount" validate:"gt=0"`
	Category   Category        `json:"category" validate:"required,category"`
	IsIncome   bool            `json:"is_income"`
	OccurredOn *time.Time      `json:"occurred_on"`
}

// ExpenseUpdate — частичное обновление расхода.
type ExpenseUpdate struct {
	Title      *string          `json:"title" validate:"omitnil,min=1,max=300"`
	Content    *string          `json:"content"`
	Amount     *decimal.Decimal `json:"amount" validate:"omitnil,gt=0"`
	Category   *Category        `json:"category" validate:"omitnil,category"`
	IsIncome   *bool            `json:"is_income"`
	OccurredOn *time.Time       `json:"occurred_on"`
}

// Split разделяет обновление на поля Item и поля расхода.
func (u ExpenseUpdate) Split() (ItemPatch, ChildPatch) {
	cp := ChildPatch{}
	if u.Amount != nil {
		cp["amount"] = u.Amount.Round(2)
	}
	if u.Category != nil {
		cp["category"] = *u.Category
	}
	if u.IsIncome != nil {
		cp["is_income"] = *u.IsIncome
	}
	if u.OccurredOn != nil {
		cp["occurred_on"] = u.OccurredOn.UTC()
	}
	return ItemPatch{Title: u.Title, Content: u.Content}, cp
}

// ApplyExpensePatch применяет ChildPatch к копии расхода.
func ApplyExpensePatch(e Expense, p ChildPatch) Expense {
	if v, ok := p["amount"].(decimal.Decimal); ok {
		e.Amount = v
	}
	if v, ok := p["category"].(Category); ok {
		e.Category = v
	}
	if v, ok := p["is_income"].(bool); ok {
		e.IsIncome = v
	}
	if v, ok := p["occurred_on"].(time.Time); ok {
		e.OccurredOn = v
	}
	return e
}
