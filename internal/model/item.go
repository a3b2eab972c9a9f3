package model

import "time"

// Kind — тип записи. Для expense, task, chat и file у Item есть дочерняя запись.
type Kind string

const (
	KindLink    Kind = "link"
	KindNote    Kind = "note"
	KindDoc     Kind = "doc"
	KindExpense Kind = "expense"
	KindTask    Kind = "task"
	KindHealth  Kind = "health"
	KindChat    Kind = "chat"
	KindFile    Kind = "file"
)

// Kinds — закрытый список видов.
var Kinds = []Kind{KindLink, KindNote, KindDoc, KindExpense, KindTask, KindHealth, KindChat, KindFile}

// Valid проверяет принадлежность списку видов.
func (k Kind) Valid() bool {
	for _, v := range Kinds {
		if v == k {
			return true
		}
	}
	return false
}

// HasChild сообщает, хранится ли для вида отдельная дочерняя запись.
func (k Kind) HasChild() bool {
	switch k {
	case KindExpense, KindTask, KindChat, KindFile:
		return true
	}
	return false
}

// Item — общая часть любой записи: заголовок, текст и временные метки.
type Item struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Kind      Kind      `gorm:"type:varchar(16);not null;index" json:"kind"`
	Title     string    `gorm:"size:300;not null" json:"title"`
	Content   *string   `gorm:"type:text" json:"content"`
	CreatedAt time.Time `gorm:"not null;index;autoCreateTime:false" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime:false" json:"updated_at"`
}

func (Item) TableName() string { return "items" }

// ItemPatch — изменяемые поля Item; nil означает «не трогать».
type ItemPatch struct {
	Title   *string
	Content *string
}

// Empty сообщает, что патч ничего не меняет.
func (p ItemPatch) Empty() bool {
	return p.Title == nil && p.Content == nil
}

// Columns возвращает патч в виде карты колонка -> значение.
func (p ItemPatch) Columns() map[string]any {
	m := map[string]any{}
	if p.Title != nil {
		m["title"] = *p.Title
	}
	if p.Content != nil {
		m["content"] = *p.Content
	}
	return m
}

// Apply применяет патч к копии Item.
func (p ItemPatch) Apply(it Item) Item {
	if p.Title != nil {
		it.Title = *p.Title
	}
	if p.Content != nil {
		c := *p.Content
		it.Content = &c
	}
	return it
}

// ChildPatch — изменения полей дочерней записи, ключи совпадают с именами колонок.
type ChildPatch map[string]any

// NextStamp возвращает метку updated_at строго больше prev с точностью до микросекунд.
func NextStamp(prev, now time.Time) time.Time {
	now = now.UTC().Truncate(time.Microsecond)
	prev = prev.UTC().Truncate(time.Microsecond)
	if !now.After(prev) {
		return prev.Add(time.Microsecond)
	}
	return now
}

// Now — текущее время в UTC с точностью хранения.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
