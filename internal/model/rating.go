package model

import (
	"time"
)

// RatingValue is the user's verdict on an assistant reply.
type RatingValue string

const (
	RatingLike    RatingValue = "like"
	RatingDislike RatingValue = "dislike"
)

// Valid reports whether v is a known rating value.
func (v RatingValue) Valid() bool {
	return v == RatingLike || v == RatingDislike
}

// Rating records one user's verdict on one message. The composite unique
// index enforces at most one row per (message, user) pair; re-rating
// overwrites the value in place.
type Rating struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	MessageID uint        `gorm:"uniqueIndex:idx_ratings_message_user;not null" json:"messageId"`
	UserID    uint        `gorm:"uniqueIndex:idx_ratings_message_user;not null" json:"userId"`
	Rating    RatingValue `gorm:"type:varchar(10);not null" json:"rating"`
	CreatedAt time.Time   `json:"createdAt"`
}

// RateMessageRequest is the request body for rating a message.
type RateMessageRequest struct {
	Rating RatingValue `json:"rating"`
}

// RatingStats aggregates all ratings for one message.
type RatingStats struct {
	Likes    int64 `json:"likes"`
	Dislikes int64 `json:"dislikes"`
	Total    int64 `json:"total"`
}
