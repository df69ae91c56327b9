package service

import (
	"context"
	"errors"
	"time"

	"github.com/aizen-ai/chat-platform/internal/events"
	"github.com/aizen-ai/chat-platform/internal/model"
	"github.com/aizen-ai/chat-platform/internal/store"
	"github.com/aizen-ai/chat-platform/pkg/metrics"
)

// RatingService manages per-user verdicts on assistant replies.
type RatingService struct {
	ratings   *store.RatingStore
	publisher *events.Publisher
}

// NewRatingService creates a rating service.
func NewRatingService(ratings *store.RatingStore, publisher *events.Publisher) *RatingService {
	return &RatingService{ratings: ratings, publisher: publisher}
}

// Rate records or overwrites the user's verdict on a message.
func (s *RatingService) Rate(ctx context.Context, userID, messageID uint, value model.RatingValue) (*model.Rating, error) {
	if !value.Valid() {
		return nil, ErrInvalidRating
	}

	rating, err := s.ratings.Upsert(ctx, messageID, userID, value)
	if err != nil {
		return nil, err
	}

	metrics.RatingsTotal.WithLabelValues(string(value)).Inc()
	s.publisher.Publish(ctx, events.SubjectRatingUpdated, events.RatingEvent{
		MessageID:  messageID,
		UserID:     userID,
		Rating:     string(value),
		OccurredAt: time.Now(),
	})
	return rating, nil
}

// UserRating returns the user's verdict on a message, or nil when the user
// has not rated it.
func (s *RatingService) UserRating(ctx context.Context, userID, messageID uint) (*model.Rating, error) {
	rating, err := s.ratings.Get(ctx, messageID, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rating, nil
}

// Stats aggregates all ratings for a message.
func (s *RatingService) Stats(ctx context.Context, messageID uint) (*model.RatingStats, error) {
	return s.ratings.Stats(ctx, messageID)
}

// Remove deletes the user's verdict on a message, if any.
func (s *RatingService) Remove(ctx context.Context, userID, messageID uint) error {
	if err := s.ratings.Delete(ctx, messageID, userID); err != nil {
		return err
	}

	s.publisher.Publish(ctx, events.SubjectRatingUpdated, events.RatingEvent{
		MessageID:  messageID,
		UserID:     userID,
		Removed:    true,
		OccurredAt: time.Now(),
	})
	return nil
}
