package events

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/aizen-ai/chat-platform/pkg/logger"
)

// Event subjects under the chat stream.
const (
	SubjectConversationCreated = "chat.conversation.created"
	SubjectConversationDeleted = "chat.conversation.deleted"
	SubjectMessageCreated      = "chat.message.created"
	SubjectRatingUpdated       = "chat.rating.updated"
)

// ConversationEvent is the payload for conversation lifecycle events.
type ConversationEvent struct {
	ConversationID uint      `json:"conversationId"`
	UserID         uint      `json:"userId"`
	Personality    string    `json:"personality,omitempty"`
	OccurredAt     time.Time `json:"occurredAt"`
}

// MessageEvent is the payload for message persistence events.
type MessageEvent struct {
	MessageID      uint      `json:"messageId"`
	ConversationID uint      `json:"conversationId"`
	Role           string    `json:"role"`
	OccurredAt     time.Time `json:"occurredAt"`
}

// RatingEvent is the payload for rating mutations.
type RatingEvent struct {
	MessageID  uint      `json:"messageId"`
	UserID     uint      `json:"userId"`
	Rating     string    `json:"rating,omitempty"`
	Removed    bool      `json:"removed,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Publisher emits chat lifecycle events. A nil Publisher is valid and drops
// everything, which is how the server runs when NATS is not configured.
type Publisher struct {
	client *Client
	logger *logger.Logger
}

// NewPublisher creates a publisher over an established client.
func NewPublisher(client *Client, log *logger.Logger) *Publisher {
	return &Publisher{client: client, logger: log}
}

// Publish serializes the payload and publishes it to subject. Failures are
// logged and swallowed.
func (p *Publisher) Publish(ctx context.Context, subject string, payload any) {
	if p == nil || p.client == nil {
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		p.logger.Warn("failed to encode event", zap.String("subject", subject), zap.Error(err))
		return
	}

	if _, err := p.client.js.Publish(ctx, subject, data); err != nil {
		p.logger.Warn("failed to publish event", zap.String("subject", subject), zap.Error(err))
	}
}
