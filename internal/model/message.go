package model

import (
	"time"
)

// Role represents the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry in a conversation's append-only log. Rows are never
// mutated after creation; the personality is copied from the conversation at
// write time so history keeps the prompt it was generated under.
type Message struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	ConversationID uint      `gorm:"index;not null" json:"conversationId"`
	Role           Role      `gorm:"type:varchar(10);not null" json:"role"`
	Content        string    `gorm:"type:text;not null" json:"content"`
	Personality    string    `gorm:"type:varchar(32);not null;default:'programmer'" json:"personality"`
	CreatedAt      time.Time `json:"createdAt"`

	Ratings []Rating `gorm:"foreignKey:MessageID;constraint:OnDelete:CASCADE" json:"-"`
}

// SendMessageRequest is the request to run one chat turn.
type SendMessageRequest struct {
	Message string `json:"message"`
}

// SendMessageResponse returns both halves of a completed turn.
type SendMessageResponse struct {
	UserMessage *Message `json:"userMessage"`
	AIMessage   *Message `json:"aiMessage"`
}
