package service

import (
	"MyVault/internal/model"
	"MyVault/internal/repo"
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ChatService — сообщения чата и сводка по диалогам.
type ChatService struct {
	repo   repo.ChildRepository[model.ChatMessage]
	logger *zap.SugaredLogger
}

func NewChatService(r repo.ChildRepository[model.ChatMessage], logger *zap.SugaredLogger) *ChatService {
	return &ChatService{repo: r, logger: logger}
}

// Create сохраняет сообщение. Без conversation_id начинается новый диалог.
func (s *ChatService) Create(ctx context.Context, in model.ChatCreate) (*model.ChatMessage, error) {
	if err := model.Validate(in); err != nil {
		return nil, err
	}
	conv := uuid.NewString()
	if in.ConversationID != nil && *in.ConversationID != "" {
		conv = *in.ConversationID
	}
	isUser := true
	if in.IsUser != nil {
		isUser = *in.IsUser
	}
	text := in.Message
	item := &model.Item{Title: model.ChatTitle(in.Message), Content: &text}
	m := &model.ChatMessage{
		Message:        in.Message,
		IsUser:         isUser,
		ConversationID: conv,
		Status:         model.StatusSent,
	}
	if err := s.repo.InsertPair(ctx, item, m); err != nil {
		return nil, fmt.Errorf("create chat message: %w", err)
	}
	s.logger.Infow("chat message created", "id", m.ID, "conversation_id", conv)
	return s.repo.ReadChild(ctx, m.ID)
}

// List возвращает сообщения, новые первыми. Пустой conversationID — все диалоги.
func (s *ChatService) List(ctx context.Context, conversationID string, p Page) ([]model.ChatMessage, error) {
	p, err := p.normalize(DefaultLimit, MaxLimit)
	if err != nil {
		return nil, err
	}
	var conds []repo.Cond
	if conversationID != "" {
		conds = append(conds, repo.Cond{Field: "conversation_id", Op: repo.Eq, Value: conversationID})
	}
	return s.repo.QueryChildren(ctx, repo.Query{
		Where:   conds,
		OrderBy: []repo.Sort{{Field: "item.created_at", Desc: true}},
		Limit:   p.Limit,
		Offset:  p.Offset,
	})
}

func (s *ChatService) Get(ctx context.Context, id string) (*model.ChatMessage, error) {
	return s.repo.ReadChild(ctx, id)
}

// UpdateStatus продвигает статус по цепочке sent -> delivered -> read.
// Повтор текущего статуса ничего не меняет, откат назад — ошибка валидации.
func (s *ChatService) UpdateStatus(ctx context.Context, id string, status model.ChatStatus) (*model.ChatMessage, error) {
	if !status.Valid() {
		return nil, model.NewValidationError("status", "must be one of sent, delivered, read")
	}
	cur, err := s.repo.ReadChild(ctx, id)
	if err != nil {
		return nil, err
	}
	switch {
	case status.Rank() == cur.Status.Rank():
		return cur, nil
	case status.Rank() < cur.Status.Rank():
		return nil, model.NewValidationError("status",
			fmt.Sprintf("cannot move from %s back to %s", cur.Status, status))
	}

	now := model.Now()
	cp := model.ChildPatch{"status": status}
	if status.Rank() >= model.StatusDelivered.Rank() && cur.DeliveredAt == nil {
		cp["delivered_at"] = &now
	}
	if status == model.StatusRead && cur.ReadAt == nil {
		cp["read_at"] = &now
	}
	m, err := s.repo.UpdateChild(ctx, id, model.ItemPatch{}, cp)
	if err != nil {
		return nil, fmt.Errorf("update chat status: %w", err)
	}
	s.logger.Infow("chat status updated", "id", id, "status", status)
	return m, nil
}

// Conversations — диалоги с временем последнего сообщения и числом сообщений, свежие первыми.
func (s *ChatService) Conversations(ctx context.Context, limit int) ([]model.Conversation, error) {
	p, err := Page{Limit: limit}.normalize(DefaultConversationLimit, MaxConversationLimit)
	if err != nil {
		return nil, err
	}
	msgs, err := s.repo.QueryChildren(ctx, repo.Query{})
	if err != nil {
		return nil, err
	}
	byID := map[string]*model.Conversation{}
	for _, m := range msgs {
		if m.ConversationID == "" {
			continue
		}
		c, ok := byID[m.ConversationID]
		if !ok {
			c = &model.Conversation{ConversationID: m.ConversationID}
			byID[m.ConversationID] = c
		}
		c.MessageCount++
		if m.Item != nil && m.Item.CreatedAt.After(c.LastMessageAt) {
			c.LastMessageAt = m.Item.CreatedAt
		}
	}
	out := make([]model.Conversation, 0, len(byID))
	for _, c := range byID {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].LastMessageAt.Equal(out[j].LastMessageAt) {
			return out[i].LastMessageAt.After(out[j].LastMessageAt)
		}
		return out[i].ConversationID < out[j].ConversationID
	})
	if len(out) > p.Limit {
		out = out[:p.Limit]
	}
	return out, nil
}

func (s *ChatService) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteChild(ctx, id); err != nil {
		return fmt.Errorf("delete chat message: %w", err)
	}
	s.logger.Infow("chat message deleted", "id", id)
	return nil
}

func (s *ChatService) updateByItem(ctx context.Context, itemID string, p model.ItemPatch) error {
	id, err := childIDByItem(ctx, s.repo, itemID)
	if err != nil {
		return err
	}
	_, err = s.repo.UpdateChild(ctx, id, p, nil)
	return err
}

func (s *ChatService) deleteByItem(ctx context.Context, itemID string) error {
	id, err := childIDByItem(ctx, s.repo, itemID)
	if err != nil {
		return err
	}
	return s.Delete(ctx, id)
}
