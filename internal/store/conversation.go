package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/aizen-ai/chat-platform/internal/model"
)

// ConversationStore persists conversations, each owned by a single user.
type ConversationStore struct {
	db *gorm.DB
}

// NewConversationStore creates a conversation store.
func NewConversationStore(db *gorm.DB) *ConversationStore {
	return &ConversationStore{db: db}
}

// Create persists a new conversation and returns the stored row.
func (s *ConversationStore) Create(ctx context.Context, userID uint, title, personality string) (*model.Conversation, error) {
	conv := model.Conversation{
		UserID:      userID,
		Title:       title,
		Personality: personality,
	}
	if err := s.db.WithContext(ctx).Create(&conv).Error; err != nil {
		return nil, fmt.Errorf("failed to create conversation: %w", err)
	}
	return &conv, nil
}

// Get returns a conversation by id or ErrNotFound.
func (s *ConversationStore) Get(ctx context.Context, id uint) (*model.Conversation, error) {
	var conv model.Conversation
	err := s.db.WithContext(ctx).First(&conv, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &conv, nil
}

// ListByUser returns all conversations owned by userID, newest first.
func (s *ConversationStore) ListByUser(ctx context.Context, userID uint) ([]model.Conversation, error) {
	var convs []model.Conversation
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&convs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	return convs, nil
}

// Delete removes a conversation and, in one transaction, its messages and
// their ratings. The explicit deletes keep the cascade honest on backends
// where the FK constraint is not enforced.
func (s *ConversationStore) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("message_id IN (?)", tx.Model(&model.Message{}).Select("id").Where("conversation_id = ?", id)).
			Delete(&model.Rating{}).Error; err != nil {
			return fmt.Errorf("failed to delete ratings: %w", err)
		}
		if err := tx.Where("conversation_id = ?", id).Delete(&model.Message{}).Error; err != nil {
			return fmt.Errorf("failed to delete messages: %w", err)
		}
		if err := tx.Delete(&model.Conversation{}, id).Error; err != nil {
			return fmt.Errorf("failed to delete conversation: %w", err)
		}
		return nil
	})
}
