package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/whisperbox/whisperbox-backend/internal/domain"
	"gorm.io/gorm"
)

func TestMessageRepository_CreateStoresMetadata(t *testing.T) {
	db := newTestDB(t)
	repo := NewMessageRepository(db)
	ctx := context.Background()

	msg := &domain.Message{
		Content:    "hello",
		ReceiverID: "acc-alice",
		SenderType: domain.SenderAnonymous,
		SenderMetadata: &domain.SenderMetadata{
			UserAgent: "Mozilla/5.0",
			IPAddress: "unknown",
		},
	}
	require.NoError(t, repo.Create(ctx, msg))
	assert.NotEmpty(t, msg.ID)

	got, err := repo.FindOwned(ctx, msg.ID, "acc-alice")
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Content)
	assert.Nil(t, got.SenderUserID)
	require.NotNil(t, got.SenderMetadata)
	assert.Equal(t, "Mozilla/5.0", got.SenderMetadata.UserAgent)
	assert.Equal(t, "unknown", got.SenderMetadata.IPAddress)
	assert.False(t, got.IsFavorite)
}

func TestMessageRepository_FindByReceiverNewestFirst(t *testing.T) {
	db := newTestDB(t)
	repo := NewMessageRepository(db)
	ctx := context.Background()

	seedMessage(t, db, &domain.Message{Content: "old", ReceiverID: "acc-1", CreatedAt: baseTime})
	seedMessage(t, db, &domain.Message{Content: "new", ReceiverID: "acc-1", CreatedAt: baseTime.Add(time.Hour)})
	seedMessage(t, db, &domain.Message{Content: "other", ReceiverID: "acc-2", CreatedAt: baseTime})

	messages, err := repo.FindByReceiver(ctx, "acc-1")
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "new", messages[0].Content)
	assert.Equal(t, "old", messages[1].Content)
}

func TestMessageRepository_FindOwnedScopedToReceiver(t *testing.T) {
	db := newTestDB(t)
	repo := NewMessageRepository(db)

	msg := seedMessage(t, db, &domain.Message{Content: "hi", ReceiverID: "acc-1"})

	_, err := repo.FindOwned(context.Background(), msg.ID, "acc-2")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestMessageRepository_UpdateFlag(t *testing.T) {
	db := newTestDB(t)
	repo := NewMessageRepository(db)
	ctx := context.Background()

	msg := seedMessage(t, db, &domain.Message{Content: "hi", ReceiverID: "acc-1"})

	require.NoError(t, repo.UpdateFlag(ctx, msg.ID, "acc-1", domain.FlagFavorite, true))
	require.NoError(t, repo.UpdateFlag(ctx, msg.ID, "acc-1", domain.FlagArchived, true))

	got, err := repo.FindOwned(ctx, msg.ID, "acc-1")
	require.NoError(t, err)
	assert.True(t, got.IsFavorite)
	assert.True(t, got.IsArchived)
	assert.False(t, got.IsRead)

	// another receiver cannot flip it
	require.NoError(t, repo.UpdateFlag(ctx, msg.ID, "acc-2", domain.FlagFavorite, false))
	got, err = repo.FindOwned(ctx, msg.ID, "acc-1")
	require.NoError(t, err)
	assert.True(t, got.IsFavorite)
}

func TestMessageRepository_DeleteOwned(t *testing.T) {
	db := newTestDB(t)
	repo := NewMessageRepository(db)
	ctx := context.Background()

	msg := seedMessage(t, db, &domain.Message{Content: "hi", ReceiverID: "acc-1"})

	deleted, err := repo.DeleteOwned(ctx, msg.ID, "acc-2")
	require.NoError(t, err)
	assert.False(t, deleted)

	deleted, err = repo.DeleteOwned(ctx, msg.ID, "acc-1")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.DeleteOwned(ctx, msg.ID, "acc-1")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestMessageRepository_CountsAndLatest(t *testing.T) {
	db := newTestDB(t)
	repo := NewMessageRepository(db)
	ctx := context.Background()

	latest, err := repo.LatestCreatedAt(ctx, "acc-1")
	require.NoError(t, err)
	assert.Nil(t, latest)

	seedMessage(t, db, &domain.Message{Content: "a", ReceiverID: "acc-1", CreatedAt: baseTime, IsRead: true, IsFavorite: true})
	seedMessage(t, db, &domain.Message{Content: "b", ReceiverID: "acc-1", CreatedAt: baseTime.Add(time.Minute), IsArchived: true})
	seedMessage(t, db, &domain.Message{Content: "c", ReceiverID: "acc-1", CreatedAt: baseTime.Add(2 * time.Minute)})

	counts, err := repo.CountsByReceiver(ctx, "acc-1")
	require.NoError(t, err)
	assert.Equal(t, &domain.MessageCounts{Total: 3, Unread: 2, Favorites: 1, Archived: 1}, counts)

	latest, err = repo.LatestCreatedAt(ctx, "acc-1")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.True(t, latest.Equal(baseTime.Add(2*time.Minute)))
}

func TestMessageRepository_AdminOperations(t *testing.T) {
	db := newTestDB(t)
	repo := NewMessageRepository(db)
	ctx := context.Background()

	seedMessage(t, db, &domain.Message{Content: "a", ReceiverID: "acc-1", CreatedAt: baseTime})
	m := seedMessage(t, db, &domain.Message{
		Content:      "b",
		ReceiverID:   "acc-2",
		SenderUserID: strPtr("acc-1"),
		SenderType:   domain.SenderRegistered,
		CreatedAt:    baseTime.Add(time.Minute),
		IsRead:       true,
	})

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "b", all[0].Content)

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalMessages)
	assert.Equal(t, int64(1), stats.AnonymousMessages)
	assert.Equal(t, int64(1), stats.RegisteredMessages)
	assert.Equal(t, int64(1), stats.UnreadMessages)

	deleted, err := repo.DeleteByID(ctx, m.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.DeleteByID(ctx, m.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}
