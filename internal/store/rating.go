package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/aizen-ai/chat-platform/internal/model"
)

// RatingStore persists per-user verdicts on messages.
type RatingStore struct {
	db *gorm.DB
}

// NewRatingStore creates a rating store.
func NewRatingStore(db *gorm.DB) *RatingStore {
	return &RatingStore{db: db}
}

// Upsert records a verdict, overwriting any prior verdict from the same user
// on the same message. The ON CONFLICT clause on the composite unique index
// makes concurrent re-ratings collapse onto one row instead of racing
// read-then-write.
func (s *RatingStore) Upsert(ctx context.Context, messageID, userID uint, value model.RatingValue) (*model.Rating, error) {
	rating := model.Rating{
		MessageID: messageID,
		UserID:    userID,
		Rating:    value,
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "message_id"}, {Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]any{"rating": value}),
		}).
		Create(&rating).Error
	if err != nil {
		return nil, fmt.Errorf("failed to upsert rating: %w", err)
	}

	// Reload to pick up the surviving row's id on the conflict path.
	var persisted model.Rating
	err = s.db.WithContext(ctx).
		Where("message_id = ? AND user_id = ?", messageID, userID).
		First(&persisted).Error
	if err != nil {
		return nil, translate(err)
	}
	return &persisted, nil
}

// Get returns userID's verdict on messageID or ErrNotFound.
func (s *RatingStore) Get(ctx context.Context, messageID, userID uint) (*model.Rating, error) {
	var rating model.Rating
	err := s.db.WithContext(ctx).
		Where("message_id = ? AND user_id = ?", messageID, userID).
		First(&rating).Error
	if err != nil {
		return nil, translate(err)
	}
	return &rating, nil
}

// Stats aggregates like/dislike counts over all ratings for one message.
func (s *RatingStore) Stats(ctx context.Context, messageID uint) (*model.RatingStats, error) {
	type row struct {
		Rating model.RatingValue
		Count  int64
	}
	var rows []row
	err := s.db.WithContext(ctx).
		Model(&model.Rating{}).
		Select("rating, COUNT(*) as count").
		Where("message_id = ?", messageID).
		Group("rating").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate ratings: %w", err)
	}

	stats := model.RatingStats{}
	for _, r := range rows {
		switch r.Rating {
		case model.RatingLike:
			stats.Likes = r.Count
		case model.RatingDislike:
			stats.Dislikes = r.Count
		}
		stats.Total += r.Count
	}
	return &stats, nil
}

// Delete removes userID's verdict on messageID. Deleting a verdict that does
// not exist is not an error.
func (s *RatingStore) Delete(ctx context.Context, messageID, userID uint) error {
	err := s.db.WithContext(ctx).
		Where("message_id = ? AND user_id = ?", messageID, userID).
		Delete(&model.Rating{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete rating: %w", err)
	}
	return nil
}
