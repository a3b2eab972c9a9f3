package repo

import (
	"MyVault/internal/docstore"
	"MyVault/internal/model"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Кодек документов: время хранится строкой фиксированной ширины, суммы — строкой
// с двумя знаками, перечисления — строками.

const (
	collItems    = "items"
	collExpenses = "expenses"
	collTasks    = "tasks"
	collChats    = "chat_messages"
	collFiles    = "files"
)

// collectionFor возвращает коллекцию дочерних документов вида или "".
func collectionFor(kind model.Kind) string {
	switch kind {
	case model.KindExpense:
		return collExpenses
	case model.KindTask:
		return collTasks
	case model.KindChat:
		return collChats
	case model.KindFile:
		return collFiles
	}
	return ""
}

// encodeValue приводит значение патча или условия к канонической форме документа.
func encodeValue(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case time.Time:
		return docstore.FormatTime(t)
	case *time.Time:
		if t == nil {
			return nil
		}
		return docstore.FormatTime(*t)
	case decimal.Decimal:
		return t.StringFixed(2)
	case *decimal.Decimal:
		if t == nil {
			return nil
		}
		return t.StringFixed(2)
	case model.Category:
		return string(t)
	case model.ChatStatus:
		return string(t)
	case model.Kind:
		return string(t)
	case datatypes.JSONMap:
		return map[string]any(t)
	case int:
		return int64(t)
	}
	return v
}

func encodeItem(it *model.Item) map[string]any {
	var content any
	if it.Content != nil {
		content = *it.Content
	}
	return map[string]any{
		"id":         it.ID,
		"kind":       string(it.Kind),
		"title":      it.Title,
		"content":    content,
		"created_at": docstore.FormatTime(it.CreatedAt),
		"updated_at": docstore.FormatTime(it.UpdatedAt),
	}
}

// decodeItem разбирает документ Item; nil-документ даёт nil.
func decodeItem(m map[string]any) (*model.Item, error) {
	if m == nil {
		return nil, nil
	}
	it := &model.Item{
		ID:    str(m["id"]),
		Kind:  model.Kind(str(m["kind"])),
		Title: str(m["title"]),
	}
	if c, ok := m["content"].(string); ok {
		it.Content = &c
	}
	var err error
	if it.CreatedAt, err = timeField(m, "created_at"); err != nil {
		return nil, err
	}
	if it.UpdatedAt, err = timeField(m, "updated_at"); err != nil {
		return nil, err
	}
	return it, nil
}

func embeddedItem(d docstore.Document) (*model.Item, error) {
	m, ok := d["item"].(map[string]any)
	if !ok || len(m) == 0 {
		return nil, nil
	}
	return decodeItem(m)
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

func boolField(v any) bool {
	b, _ := v.(bool)
	return b
}

func int64Field(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case float64:
		return int64(n)
	}
	return 0
}

func timeField(m map[string]any, key string) (time.Time, error) {
	s, ok := m[key].(string)
	if !ok || s == "" {
		return time.Time{}, nil
	}
	t, err := docstore.ParseTime(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("field %s: %w", key, err)
	}
	return t.UTC(), nil
}

func timePtrField(m map[string]any, key string) (*time.Time, error) {
	if _, ok := m[key].(string); !ok {
		return nil, nil
	}
	t, err := timeField(m, key)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// docCodec описывает отображение дочерней записи в документ и обратно.
type docCodec[C any] struct {
	collection string
	encode     func(*C) docstore.Document
	decode     func(docstore.Document) (*C, error)
	apply      func(C, model.ChildPatch) C
	// projection — минимальный Item, если родитель не найден ни во вложенной копии, ни в коллекции items.
	projection func(*C) (title string, stamp time.Time)
}

func withItem(d docstore.Document, id, itemID string, item *model.Item) docstore.Document {
	d["id"] = id
	d["item_id"] = itemID
	if item != nil {
		d["item"] = encodeItem(item)
	}
	return d
}

var expenseCodec = docCodec[model.Expense]{
	collection: collExpenses,
	encode: func(e *model.Expense) docstore.Document {
		return withItem(docstore.Document{
			"amount":      e.Amount.StringFixed(2),
			"category":    string(e.Category),
			"is_income":   e.IsIncome,
			"occurred_on": docstore.FormatTime(e.OccurredOn),
		}, e.ID, e.ItemID, e.Item)
	},
	decode: func(d docstore.Document) (*model.Expense, error) {
		amount, err := decimal.NewFromString(str(d["amount"]))
		if err != nil {
			return nil, fmt.Errorf("field amount: %w", err)
		}
		occurred, err := timeField(d, "occurred_on")
		if err != nil {
			return nil, err
		}
		return &model.Expense{
			ID:         str(d["id"]),
			ItemID:     str(d["item_id"]),
			Amount:     amount,
			Category:   model.Category(str(d["category"])),
			IsIncome:   boolField(d["is_income"]),
			OccurredOn: occurred,
		}, nil
	},
	apply: model.ApplyExpensePatch,
	projection: func(e *model.Expense) (string, time.Time) {
		return "Expense " + e.Amount.StringFixed(2), e.OccurredOn
	},
}

var taskCodec = docCodec[model.Task]{
	collection: collTasks,
	encode: func(t *model.Task) docstore.Document {
		return withItem(docstore.Document{
			"due_at":  encodeValue(t.DueAt),
			"is_done": t.IsDone,
		}, t.ID, t.ItemID, t.Item)
	},
	decode: func(d docstore.Document) (*model.Task, error) {
		due, err := timePtrField(d, "due_at")
		if err != nil {
			return nil, err
		}
		return &model.Task{
			ID:     str(d["id"]),
			ItemID: str(d["item_id"]),
			DueAt:  due,
			IsDone: boolField(d["is_done"]),
		}, nil
	},
	apply: model.ApplyTaskPatch,
	projection: func(t *model.Task) (string, time.Time) {
		if t.DueAt != nil {
			return "Task", *t.DueAt
		}
		return "Task", time.Time{}
	},
}

var chatCodec = docCodec[model.ChatMessage]{
	collection: collChats,
	encode: func(m *model.ChatMessage) docstore.Document {
		return withItem(docstore.Document{
			"message":         m.Message,
			"is_user":         m.IsUser,
			"conversation_id": m.ConversationID,
			"status":          string(m.Status),
			"delivered_at":    encodeValue(m.DeliveredAt),
			"read_at":         encodeValue(m.ReadAt),
		}, m.ID, m.ItemID, m.Item)
	},
	decode: func(d docstore.Document) (*model.ChatMessage, error) {
		delivered, err := timePtrField(d, "delivered_at")
		if err != nil {
			return nil, err
		}
		read, err := timePtrField(d, "read_at")
		if err != nil {
			return nil, err
		}
		return &model.ChatMessage{
			ID:             str(d["id"]),
			ItemID:         str(d["item_id"]),
			Message:        str(d["message"]),
			IsUser:         boolField(d["is_user"]),
			ConversationID: str(d["conversation_id"]),
			Status:         model.ChatStatus(str(d["status"])),
			DeliveredAt:    delivered,
			ReadAt:         read,
		}, nil
	},
	apply: model.ApplyChatPatch,
	projection: func(m *model.ChatMessage) (string, time.Time) {
		if m.DeliveredAt != nil {
			return model.ChatTitle(m.Message), *m.DeliveredAt
		}
		return model.ChatTitle(m.Message), time.Time{}
	},
}

var fileCodec = docCodec[model.FileAsset]{
	collection: collFiles,
	encode: func(f *model.FileAsset) docstore.Document {
		var meta any
		if f.Metadata != nil {
			meta = map[string]any(f.Metadata)
		}
		return withItem(docstore.Document{
			"original_filename": f.OriginalFilename,
			"storage_path":      f.StoragePath,
			"storage_bucket":    f.StorageBucket,
			"public_url":        f.PublicURL,
			"content_type":      f.ContentType,
			"size":              f.Size,
			"folder":            f.Folder,
			"uploaded_at":       docstore.FormatTime(f.UploadedAt),
			"metadata":          meta,
		}, f.ID, f.ItemID, f.Item)
	},
	decode: func(d docstore.Document) (*model.FileAsset, error) {
		uploaded, err := timeField(d, "uploaded_at")
		if err != nil {
			return nil, err
		}
		f := &model.FileAsset{
			ID:               str(d["id"]),
			ItemID:           str(d["item_id"]),
			OriginalFilename: str(d["original_filename"]),
			StoragePath:      str(d["storage_path"]),
			StorageBucket:    str(d["storage_bucket"]),
			PublicURL:        str(d["public_url"]),
			ContentType:      str(d["content_type"]),
			Size:             int64Field(d["size"]),
			Folder:           str(d["folder"]),
			UploadedAt:       uploaded,
		}
		if m, ok := d["metadata"].(map[string]any); ok {
			f.Metadata = datatypes.JSONMap(m)
		}
		return f, nil
	},
	apply: model.ApplyFilePatch,
	projection: func(f *model.FileAsset) (string, time.Time) {
		return f.OriginalFilename, f.UploadedAt
	},
}
