package service

import "errors"

// Service-level failures, mapped to HTTP statuses at the handler boundary.
var (
	// ErrUnauthorized covers both a missing conversation and an owner
	// mismatch; callers learn nothing about conversations they don't own.
	ErrUnauthorized = errors.New("unauthorized or conversation not found")

	// ErrEmptyMessage rejects a turn with no user text.
	ErrEmptyMessage = errors.New("message text is required")

	// ErrEmptyQuery rejects a search with no query.
	ErrEmptyQuery = errors.New("search query is required")

	// ErrInvalidRating rejects rating values outside {like, dislike}.
	ErrInvalidRating = errors.New("rating must be like or dislike")

	// ErrModelUnavailable wraps model collaborator failures so handler
	// responses never leak provider internals.
	ErrModelUnavailable = errors.New("model unavailable")
)
