package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aizen-ai/chat-platform/internal/model"
)

func strPtr(s string) *string { return &s }

func TestUpsertRequiresOpenID(t *testing.T) {
	users := NewUserStore(newTestDB(t), "")
	err := users.Upsert(context.Background(), model.UpsertUserParams{})
	assert.ErrorIs(t, err, ErrMissingOpenID)
}

func TestUpsertIdempotence(t *testing.T) {
	db := newTestDB(t)
	users := NewUserStore(db, "")
	ctx := context.Background()

	params := model.UpsertUserParams{
		OpenID: "open-1",
		Name:   strPtr("Sara"),
		Email:  strPtr("sara@example.com"),
	}
	require.NoError(t, users.Upsert(ctx, params))

	first, err := users.GetByOpenID(ctx, "open-1")
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, users.Upsert(ctx, params))

	second, err := users.GetByOpenID(ctx, "open-1")
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&model.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, first.ID, second.ID)

	// Every upsert bumps the sign-in timestamp, even with no other change.
	assert.True(t, second.LastSignedIn.After(first.LastSignedIn),
		"lastSignedIn should strictly increase: %v vs %v", first.LastSignedIn, second.LastSignedIn)
}

func TestUpsertLeavesUnsuppliedFieldsUntouched(t *testing.T) {
	db := newTestDB(t)
	users := NewUserStore(db, "")
	ctx := context.Background()

	require.NoError(t, users.Upsert(ctx, model.UpsertUserParams{
		OpenID:      "open-2",
		Name:        strPtr("Omar"),
		Email:       strPtr("omar@example.com"),
		LoginMethod: strPtr("google"),
	}))

	// Second upsert mentions only the name.
	require.NoError(t, users.Upsert(ctx, model.UpsertUserParams{
		OpenID: "open-2",
		Name:   strPtr("Omar K"),
	}))

	u, err := users.GetByOpenID(ctx, "open-2")
	require.NoError(t, err)
	require.NotNil(t, u.Name)
	assert.Equal(t, "Omar K", *u.Name)
	require.NotNil(t, u.Email)
	assert.Equal(t, "omar@example.com", *u.Email)
	require.NotNil(t, u.LoginMethod)
	assert.Equal(t, "google", *u.LoginMethod)
}

func TestUpsertOwnerOverride(t *testing.T) {
	db := newTestDB(t)
	users := NewUserStore(db, "owner-id")
	ctx := context.Background()

	// Insert path: owner open-id with no explicit role gets admin.
	require.NoError(t, users.Upsert(ctx, model.UpsertUserParams{OpenID: "owner-id"}))
	u, err := users.GetByOpenID(ctx, "owner-id")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, u.Role)

	// Demote explicitly, then upsert again without a role: override reapplies.
	demoted := model.RoleUserDefault
	require.NoError(t, users.Upsert(ctx, model.UpsertUserParams{OpenID: "owner-id", Role: &demoted}))
	u, err = users.GetByOpenID(ctx, "owner-id")
	require.NoError(t, err)
	assert.Equal(t, model.RoleUserDefault, u.Role)

	require.NoError(t, users.Upsert(ctx, model.UpsertUserParams{OpenID: "owner-id"}))
	u, err = users.GetByOpenID(ctx, "owner-id")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, u.Role)
}

func TestUpsertDefaultRole(t *testing.T) {
	db := newTestDB(t)
	users := NewUserStore(db, "owner-id")
	ctx := context.Background()

	require.NoError(t, users.Upsert(ctx, model.UpsertUserParams{OpenID: "regular"}))
	u, err := users.GetByOpenID(ctx, "regular")
	require.NoError(t, err)
	assert.Equal(t, model.RoleUserDefault, u.Role)

	// Role stays untouched on update when the caller does not supply one.
	admin := model.RoleAdmin
	require.NoError(t, users.Upsert(ctx, model.UpsertUserParams{OpenID: "regular", Role: &admin}))
	require.NoError(t, users.Upsert(ctx, model.UpsertUserParams{OpenID: "regular"}))
	u, err = users.GetByOpenID(ctx, "regular")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, u.Role)
}

func TestGetByOpenIDNotFound(t *testing.T) {
	users := NewUserStore(newTestDB(t), "")
	_, err := users.GetByOpenID(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}
