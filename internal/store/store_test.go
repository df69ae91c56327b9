package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/aizen-ai/chat-platform/internal/model"
)

var dbSeq int

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dbSeq++
	dsn := fmt.Sprintf("file:storetest%d?mode=memory&cache=shared", dbSeq)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, openID string) *model.User {
	t.Helper()
	users := NewUserStore(db, "")
	require.NoError(t, users.Upsert(context.Background(), model.UpsertUserParams{OpenID: openID}))
	u, err := users.GetByOpenID(context.Background(), openID)
	require.NoError(t, err)
	return u
}
