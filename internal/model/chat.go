package model

import "time"

// ChatStatus — статус доставки сообщения.
type ChatStatus string

const (
	StatusSent      ChatStatus = "sent"
	StatusDelivered ChatStatus = "delivered"
	StatusRead      ChatStatus = "read"
)

// Rank — позиция статуса в цепочке sent -> delivered -> read, -1 для неизвестного.
func (s ChatStatus) Rank() int {
	switch s {
	case StatusSent:
		return 0
	case StatusDelivered:
		return 1
	case StatusRead:
		return 2
	}
	return -1
}

func (s ChatStatus) Valid() bool { return s.Rank() >= 0 }

// ChatMessage — сообщение чата.
type ChatMessage struct {
	ID             string     `gorm:"primaryKey;type:varchar(36)" json:"id"`
	ItemID         string     `gorm:"type:varchar(36);not null;uniqueIndex" json:"item_id"`
	Item           *Item      `gorm:"foreignKey:ItemID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"item"`
	Message        string     `gorm:"type:text;not null" json:"message"`
	IsUser         bool       `gorm:"not null" json:"is_user"`
	ConversationID string     `gorm:"type:varchar(64);not null;index" json:"conversation_id"`
	Status         ChatStatus `gorm:"type:varchar(16);not null" json:"status"`
	DeliveredAt    *time.Time `json:"delivered_at"`
	ReadAt         *time.Time `json:"read_at"`
}

func (ChatMessage) TableName() string { return "chat_messages" }

// ChatCreate — новое сообщение. IsUser по умолчанию true.
type ChatCreate struct {
	Message        string  `json:"message" validate:"required,max=2000"`
	IsUser         *bool   `json:"is_user"`
	ConversationID *string `json:"conversation_id" validate:"omitempty,max=64"`
}

// Conversation — сводка по диалогу.
type Conversation struct {
	ConversationID string    `json:"conversation_id"`
	LastMessageAt  time.Time `json:"last_message_at"`
	MessageCount   int       `json:"message_count"`
}

func ApplyChatPatch(m ChatMessage, p ChildPatch) ChatMessage {
	if v, ok := p["status"].(ChatStatus); ok {
		m.Status = v
	}
	if v, ok := p["delivered_at"].(*time.Time); ok {
		m.DeliveredAt = v
	}
	if v, ok := p["read_at"].(*time.Time); ok {
		m.ReadAt = v
	}
	if v, ok := p["message"].(string); ok {
		m.Message = v
	}
	return m
}

// ChatTitle — заголовок Item для сообщения: префикс и первые 50 символов текста.
func ChatTitle(message string) string {
	r := []rune(message)
	if len(r) > 50 {
		r = r[:50]
	}
	return "Chat message: " + string(r) + "..."
}
