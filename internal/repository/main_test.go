package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/whisperbox/whisperbox-backend/internal/domain"
	"github.com/whisperbox/whisperbox-backend/internal/migration"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens an in-memory SQLite database with the full schema
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, migration.Run(db))
	return db
}

func strPtr(s string) *string { return &s }

func seedProfile(t *testing.T, db *gorm.DB, userID, username string) *domain.Profile {
	t.Helper()
	p := &domain.Profile{UserID: userID, Username: username}
	require.NoError(t, db.Create(p).Error)
	return p
}

func seedMessage(t *testing.T, db *gorm.DB, msg *domain.Message) *domain.Message {
	t.Helper()
	if msg.SenderType == "" {
		msg.SenderType = domain.SenderAnonymous
	}
	require.NoError(t, db.WithContext(context.Background()).Create(msg).Error)
	return msg
}

var baseTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
