package model

import "time"

// Task — задача со сроком и признаком выполнения.
type Task struct {
	ID     string     `gorm:"primaryKey;type:varchar(36)" json:"id"`
	ItemID string     `gorm:"type:varchar(36);not null;uniqueIndex" json:"item_id"`
	Item   *Item      `gorm:"foreignKey:ItemID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"item"`
	DueAt  *time.Time `gorm:"index" json:"due_at"`
	IsDone bool       `gorm:"not null;index" json:"is_done"`
}

func (Task) TableName() string { return "tasks" }

type TaskCreate struct {
	Title   string     `json:"title" validate:"required,max=300"`
	Content *string    `json:"content"`
	DueAt   *time.Time `json:"due_at"`
	IsDone  bool       `json:"is_done"`
}

// TaskUpdate — частичное обновление задачи. ClearDue снимает срок.
type TaskUpdate struct {
	Title    *string    `json:"title" validate:"omitnil,min=1,max=300"`
	Content  *string    `json:"content"`
	DueAt    *time.Time `json:"due_at"`
	ClearDue bool       `json:"clear_due"`
	IsDone   *bool      `json:"is_done"`
}

func (u TaskUpdate) Split() (ItemPatch, ChildPatch) {
	cp := ChildPatch{}
	switch {
	case u.ClearDue:
		cp["due_at"] = (*time.Time)(nil)
	case u.DueAt != nil:
		d := u.DueAt.UTC()
		cp["due_at"] = &d
	}
	if u.IsDone != nil {
		cp["is_done"] = *u.IsDone
	}
	return ItemPatch{Title: u.Title, Content: u.Content}, cp
}

func ApplyTaskPatch(t Task, p ChildPatch) Task {
	if v, ok := p["due_at"]; ok {
		if d, ok := v.(*time.Time); ok {
			t.DueAt = d
		}
	}
	if v, ok := p["is_done"].(bool); ok {
		t.IsDone = v
	}
	return t
}
