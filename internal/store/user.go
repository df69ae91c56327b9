package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/aizen-ai/chat-platform/internal/model"
)

// ErrMissingOpenID is returned when an upsert arrives without an open-id.
var ErrMissingOpenID = errors.New("open id is required for upsert")

// UserStore persists user accounts keyed by their OAuth open-id.
type UserStore struct {
	db *gorm.DB

	// ownerOpenID, when it matches an upserted open-id with no explicit
	// role, forces the admin role.
	ownerOpenID string
}

// NewUserStore creates a user store.
func NewUserStore(db *gorm.DB, ownerOpenID string) *UserStore {
	return &UserStore{db: db, ownerOpenID: ownerOpenID}
}

// Upsert inserts or updates a user keyed on open-id. Only fields supplied in
// params enter the update set, so an update never clobbers columns the
// caller did not mention. LastSignedIn always lands in the update set: every
// successful upsert bumps it even when nothing else changed.
func (s *UserStore) Upsert(ctx context.Context, params model.UpsertUserParams) error {
	if params.OpenID == "" {
		return ErrMissingOpenID
	}

	now := time.Now()
	user := model.User{OpenID: params.OpenID}
	assignments := map[string]any{}

	if params.Name != nil {
		user.Name = params.Name
		assignments["name"] = *params.Name
	}
	if params.Email != nil {
		user.Email = params.Email
		assignments["email"] = *params.Email
	}
	if params.LoginMethod != nil {
		user.LoginMethod = params.LoginMethod
		assignments["login_method"] = *params.LoginMethod
	}

	switch {
	case params.Role != nil:
		user.Role = *params.Role
		assignments["role"] = *params.Role
	case s.ownerOpenID != "" && params.OpenID == s.ownerOpenID:
		user.Role = model.RoleAdmin
		assignments["role"] = model.RoleAdmin
	default:
		user.Role = model.RoleUserDefault
	}

	signedIn := now
	if params.LastSignedIn != nil {
		signedIn = *params.LastSignedIn
	}
	user.LastSignedIn = signedIn
	assignments["last_signed_in"] = signedIn
	assignments["updated_at"] = now

	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "open_id"}},
			DoUpdates: clause.Assignments(assignments),
		}).
		Create(&user).Error
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}
	return nil
}

// GetByOpenID returns the user with the given open-id or ErrNotFound.
func (s *UserStore) GetByOpenID(ctx context.Context, openID string) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).
		Where("open_id = ?", openID).
		First(&user).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// GetByID returns the user with the given surrogate id or ErrNotFound.
func (s *UserStore) GetByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).First(&user, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}
