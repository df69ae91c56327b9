package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/aizen-ai/chat-platform/internal/events"
	"github.com/aizen-ai/chat-platform/internal/llm"
	"github.com/aizen-ai/chat-platform/internal/model"
	"github.com/aizen-ai/chat-platform/internal/personality"
	"github.com/aizen-ai/chat-platform/internal/store"
	"github.com/aizen-ai/chat-platform/pkg/logger"
	"github.com/aizen-ai/chat-platform/pkg/metrics"
)

// FallbackReply is returned to the user when the model produces no usable
// text. Matches the client's Arabic locale.
const FallbackReply = "عذراً، لم أتمكن من الرد."

// ChatService runs conversational turns: it persists the user's message,
// obtains the assistant's reply and persists it, enforcing ownership on
// every conversation access.
type ChatService struct {
	conversations *store.ConversationStore
	messages      *store.MessageStore
	llmClient     llm.Client
	publisher     *events.Publisher
	logger        *logger.Logger

	llmModel   string
	llmTimeout time.Duration
}

// NewChatService creates a chat service.
func NewChatService(
	conversations *store.ConversationStore,
	messages *store.MessageStore,
	llmClient llm.Client,
	publisher *events.Publisher,
	log *logger.Logger,
	llmModel string,
	llmTimeout time.Duration,
) *ChatService {
	if llmTimeout <= 0 {
		llmTimeout = 30 * time.Second
	}
	return &ChatService{
		conversations: conversations,
		messages:      messages,
		llmClient:     llmClient,
		publisher:     publisher,
		logger:        log,
		llmModel:      llmModel,
		llmTimeout:    llmTimeout,
	}
}

// CreateConversation starts a new conversation with the given persona. An
// empty key falls back to the programmer persona, matching the client's
// single-persona UI.
func (s *ChatService) CreateConversation(ctx context.Context, userID uint, personalityKey string) (*model.Conversation, error) {
	if personalityKey == "" {
		personalityKey = personality.KeyProgrammer
	}
	if !personality.IsRegistered(personalityKey) {
		return nil, personality.ErrUnknownPersonality
	}

	conv, err := s.conversations.Create(ctx, userID, personality.DefaultTitle(personalityKey), personalityKey)
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, events.SubjectConversationCreated, events.ConversationEvent{
		ConversationID: conv.ID,
		UserID:         userID,
		Personality:    personalityKey,
		OccurredAt:     time.Now(),
	})

	return conv, nil
}

// GetConversations lists the user's conversations, newest first.
func (s *ChatService) GetConversations(ctx context.Context, userID uint) ([]model.Conversation, error) {
	return s.conversations.ListByUser(ctx, userID)
}

// GetMessages returns a conversation's history in chronological order after
// verifying ownership.
func (s *ChatService) GetMessages(ctx context.Context, userID, conversationID uint) ([]model.Message, error) {
	if _, err := s.authorize(ctx, userID, conversationID); err != nil {
		return nil, err
	}
	return s.messages.ListByConversation(ctx, conversationID)
}

// DeleteConversation removes a conversation and its messages after
// verifying ownership.
func (s *ChatService) DeleteConversation(ctx context.Context, userID, conversationID uint) error {
	if _, err := s.authorize(ctx, userID, conversationID); err != nil {
		return err
	}
	if err := s.conversations.Delete(ctx, conversationID); err != nil {
		return err
	}

	s.publisher.Publish(ctx, events.SubjectConversationDeleted, events.ConversationEvent{
		ConversationID: conversationID,
		UserID:         userID,
		OccurredAt:     time.Now(),
	})
	return nil
}

// SearchMessages returns messages across the user's own conversations whose
// content contains query, newest first.
func (s *ChatService) SearchMessages(ctx context.Context, userID uint, query string) ([]model.Message, error) {
	if query == "" {
		return nil, ErrEmptyQuery
	}
	return s.messages.Search(ctx, userID, query)
}

// SendMessage runs one chat turn. The user's message is persisted before the
// model is invoked, so a model failure never loses what the user typed: the
// orphaned user message simply shows up on the next history fetch with no
// assistant reply. On success exactly two messages are appended, in order.
func (s *ChatService) SendMessage(ctx context.Context, userID, conversationID uint, text string) (*model.SendMessageResponse, error) {
	if text == "" {
		return nil, ErrEmptyMessage
	}

	conv, err := s.authorize(ctx, userID, conversationID)
	if err != nil {
		return nil, err
	}

	systemPrompt, err := personality.SystemPrompt(conv.Personality)
	if err != nil {
		return nil, err
	}

	history, err := s.messages.ListByConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	userMsg, err := s.messages.Append(ctx, conversationID, model.RoleUser, text, conv.Personality)
	if err != nil {
		return nil, err
	}
	metrics.MessagesTotal.WithLabelValues(string(model.RoleUser)).Inc()
	s.publisher.Publish(ctx, events.SubjectMessageCreated, events.MessageEvent{
		MessageID:      userMsg.ID,
		ConversationID: conversationID,
		Role:           string(model.RoleUser),
		OccurredAt:     time.Now(),
	})

	reply, err := s.complete(ctx, conv.Personality, systemPrompt, history, text)
	if err != nil {
		metrics.RecordTurn(conv.Personality, "model_error")
		return nil, err
	}

	aiMsg, err := s.messages.Append(ctx, conversationID, model.RoleAssistant, reply, conv.Personality)
	if err != nil {
		return nil, err
	}
	metrics.MessagesTotal.WithLabelValues(string(model.RoleAssistant)).Inc()
	metrics.RecordTurn(conv.Personality, "ok")
	s.publisher.Publish(ctx, events.SubjectMessageCreated, events.MessageEvent{
		MessageID:      aiMsg.ID,
		ConversationID: conversationID,
		Role:           string(model.RoleAssistant),
		OccurredAt:     time.Now(),
	})

	return &model.SendMessageResponse{
		UserMessage: userMsg,
		AIMessage:   aiMsg,
	}, nil
}

// complete invokes the model with [system] + history + [new user message]
// and returns the reply text, substituting the localized fallback when the
// model returns nothing usable.
func (s *ChatService) complete(ctx context.Context, personalityKey, systemPrompt string, history []model.Message, text string) (string, error) {
	msgs := make([]llm.ChatMessage, 0, len(history)+2)
	msgs = append(msgs, llm.ChatMessage{Role: llm.RoleSystem, Content: systemPrompt})
	for _, m := range history {
		msgs = append(msgs, llm.ChatMessage{Role: string(m.Role), Content: m.Content})
	}
	msgs = append(msgs, llm.ChatMessage{Role: llm.RoleUser, Content: text})

	llmCtx, cancel := context.WithTimeout(ctx, s.llmTimeout)
	defer cancel()

	start := time.Now()
	resp, err := s.llmClient.Complete(llmCtx, &llm.CompletionRequest{
		Model:    s.llmModel,
		Messages: msgs,
	})
	if err != nil {
		metrics.RecordLLMRequest(s.llmClient.Name(), "error", time.Since(start).Seconds())
		s.logger.Error("model invocation failed",
			zap.String("provider", s.llmClient.Name()),
			zap.String("personality", personalityKey),
			zap.Error(err),
		)
		return "", fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}
	metrics.RecordLLMRequest(s.llmClient.Name(), "ok", time.Since(start).Seconds())

	if resp.Content == "" {
		return FallbackReply, nil
	}
	return resp.Content, nil
}

// authorize loads the conversation and verifies ownership. A missing
// conversation and a foreign conversation are indistinguishable to the
// caller.
func (s *ChatService) authorize(ctx context.Context, userID, conversationID uint) (*model.Conversation, error) {
	conv, err := s.conversations.Get(ctx, conversationID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	if conv.UserID != userID {
		return nil, ErrUnauthorized
	}
	return conv, nil
}
