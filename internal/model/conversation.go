package model

import (
	"time"
)

// Conversation represents a chat session owned by a single user.
type Conversation struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"index;not null" json:"userId"`
	Title       string    `gorm:"type:varchar(255);not null;default:'محادثة جديدة'" json:"title"`
	Personality string    `gorm:"type:varchar(32);not null;default:'programmer'" json:"personality"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	Messages []Message `gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE" json:"-"`
}

// CreateConversationRequest is the request to start a new conversation.
type CreateConversationRequest struct {
	Personality string `json:"personality"`
}
