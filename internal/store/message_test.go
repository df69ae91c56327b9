package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aizen-ai/chat-platform/internal/model"
)

func TestMessageOrderingIsChronological(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := seedUser(t, db, "open-msg")

	convs := NewConversationStore(db)
	msgs := NewMessageStore(db)

	conv, err := convs.Create(ctx, user.ID, "محادثة البرمجة", "programmer")
	require.NoError(t, err)

	for _, content := range []string{"first", "second", "third"} {
		_, err := msgs.Append(ctx, conv.ID, model.RoleUser, content, "programmer")
		require.NoError(t, err)
	}

	history, err := msgs.ListByConversation(ctx, conv.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "first", history[0].Content)
	assert.Equal(t, "second", history[1].Content)
	assert.Equal(t, "third", history[2].Content)
}

func TestConversationListingIsNewestFirst(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := seedUser(t, db, "open-conv")

	convs := NewConversationStore(db)
	first, err := convs.Create(ctx, user.ID, "أولى", "programmer")
	require.NoError(t, err)
	second, err := convs.Create(ctx, user.ID, "ثانية", "programmer")
	require.NoError(t, err)

	// Force distinct creation times regardless of clock resolution.
	require.NoError(t, db.Model(first).Update("created_at", first.CreatedAt.Add(-time.Second)).Error)

	list, err := convs.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
}

func TestSearchScopedToOwner(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	alice := seedUser(t, db, "open-alice")
	bob := seedUser(t, db, "open-bob")

	convs := NewConversationStore(db)
	msgs := NewMessageStore(db)

	aliceConv, err := convs.Create(ctx, alice.ID, "محادثة البرمجة", "programmer")
	require.NoError(t, err)
	bobConv, err := convs.Create(ctx, bob.ID, "محادثة البرمجة", "programmer")
	require.NoError(t, err)

	_, err = msgs.Append(ctx, aliceConv.ID, model.RoleUser, "golang generics question", "programmer")
	require.NoError(t, err)
	_, err = msgs.Append(ctx, bobConv.ID, model.RoleUser, "golang channels question", "programmer")
	require.NoError(t, err)

	results, err := msgs.Search(ctx, alice.ID, "golang")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, aliceConv.ID, results[0].ConversationID)

	// Substring that matches only the other user's message yields nothing.
	results, err = msgs.Search(ctx, alice.ID, "channels")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestDeleteConversationCascades(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := seedUser(t, db, "open-del")

	convs := NewConversationStore(db)
	msgs := NewMessageStore(db)
	ratings := NewRatingStore(db)

	conv, err := convs.Create(ctx, user.ID, "محادثة البرمجة", "programmer")
	require.NoError(t, err)
	msg, err := msgs.Append(ctx, conv.ID, model.RoleAssistant, "reply", "programmer")
	require.NoError(t, err)
	_, err = ratings.Upsert(ctx, msg.ID, user.ID, model.RatingLike)
	require.NoError(t, err)

	require.NoError(t, convs.Delete(ctx, conv.ID))

	_, err = convs.Get(ctx, conv.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	left, err := msgs.ListByConversation(ctx, conv.ID)
	require.NoError(t, err)
	assert.Empty(t, left)

	_, err = ratings.Get(ctx, msg.ID, user.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
