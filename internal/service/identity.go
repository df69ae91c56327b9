// Package service provides business logic for the chat platform.
package service

import (
	"context"
	"errors"

	"github.com/aizen-ai/chat-platform/internal/model"
	"github.com/aizen-ai/chat-platform/internal/store"
)

// IdentityService manages user accounts upserted on every successful login.
type IdentityService struct {
	users *store.UserStore
}

// NewIdentityService creates an identity service.
func NewIdentityService(users *store.UserStore) *IdentityService {
	return &IdentityService{users: users}
}

// Upsert inserts or refreshes a user record. Called on every successful
// login; the store bumps lastSignedIn even when nothing else changed.
func (s *IdentityService) Upsert(ctx context.Context, params model.UpsertUserParams) error {
	return s.users.Upsert(ctx, params)
}

// Lookup returns the user for an open-id, or nil when no such user exists.
// Absence is not an error here: session middleware treats an unknown
// open-id as an anonymous request.
func (s *IdentityService) Lookup(ctx context.Context, openID string) (*model.User, error) {
	user, err := s.users.GetByOpenID(ctx, openID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}
