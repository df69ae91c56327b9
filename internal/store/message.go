package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/aizen-ai/chat-platform/internal/model"
)

// MessageStore persists the append-only message log.
type MessageStore struct {
	db *gorm.DB
}

// NewMessageStore creates a message store.
func NewMessageStore(db *gorm.DB) *MessageStore {
	return &MessageStore{db: db}
}

// Append adds one message to a conversation's log and returns the stored row.
func (s *MessageStore) Append(ctx context.Context, conversationID uint, role model.Role, content, personality string) (*model.Message, error) {
	msg := model.Message{
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
		Personality:    personality,
	}
	if err := s.db.WithContext(ctx).Create(&msg).Error; err != nil {
		return nil, fmt.Errorf("failed to append message: %w", err)
	}
	return &msg, nil
}

// Get returns a message by id or ErrNotFound.
func (s *MessageStore) Get(ctx context.Context, id uint) (*model.Message, error) {
	var msg model.Message
	err := s.db.WithContext(ctx).First(&msg, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &msg, nil
}

// ListByConversation returns a conversation's messages in chronological
// order. Note this is the inverse of conversation listing, which is newest
// first; the two orderings are deliberate and must not be unified.
func (s *MessageStore) ListByConversation(ctx context.Context, conversationID uint) ([]model.Message, error) {
	var msgs []model.Message
	err := s.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC, id ASC").
		Find(&msgs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return msgs, nil
}

// Search returns messages in any of userID's conversations whose content
// contains query, newest first. The join keeps results scoped to the
// caller's own conversations.
func (s *MessageStore) Search(ctx context.Context, userID uint, query string) ([]model.Message, error) {
	var msgs []model.Message
	err := s.db.WithContext(ctx).
		Joins("JOIN conversations ON conversations.id = messages.conversation_id").
		Where("conversations.user_id = ?", userID).
		Where("messages.content LIKE ?", "%"+query+"%").
		Order("messages.created_at DESC, messages.id DESC").
		Find(&msgs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search messages: %w", err)
	}
	return msgs, nil
}
