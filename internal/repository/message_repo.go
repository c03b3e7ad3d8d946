package repository

import (
	"context"
	"time"

	"github.com/whisperbox/whisperbox-backend/internal/domain"
	"gorm.io/gorm"
)

// MessageRepository message data access interface
type MessageRepository interface {
	Create(ctx context.Context, msg *domain.Message) error
	FindByReceiver(ctx context.Context, receiverID string) ([]*domain.Message, error)
	FindOwned(ctx context.Context, id, receiverID string) (*domain.Message, error)
	UpdateFlag(ctx context.Context, id, receiverID string, flag domain.MessageFlag, value bool) error
	DeleteOwned(ctx context.Context, id, receiverID string) (bool, error)
	CountsByReceiver(ctx context.Context, receiverID string) (*domain.MessageCounts, error)
	LatestCreatedAt(ctx context.Context, receiverID string) (*time.Time, error)

	// Cross-account access for moderation
	FindAll(ctx context.Context) ([]*domain.Message, error)
	DeleteByID(ctx context.Context, id string) (bool, error)
	Stats(ctx context.Context) (*domain.AdminStats, error)
}

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

// Create inserts a message
func (r *messageRepository) Create(ctx context.Context, msg *domain.Message) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

// FindByReceiver returns every message sent to receiverID, newest first
func (r *messageRepository) FindByReceiver(ctx context.Context, receiverID string) ([]*domain.Message, error) {
	var messages []*domain.Message
	err := r.db.WithContext(ctx).
		Where("receiver_id = ?", receiverID).
		Order("created_at DESC").
		Find(&messages).Error
	return messages, err
}

// FindOwned finds a message by id scoped to its receiver
func (r *messageRepository) FindOwned(ctx context.Context, id, receiverID string) (*domain.Message, error) {
	var msg domain.Message
	err := r.db.WithContext(ctx).
		Where("id = ? AND receiver_id = ?", id, receiverID).
		First(&msg).Error
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// UpdateFlag sets one boolean column on a receiver's message
func (r *messageRepository) UpdateFlag(ctx context.Context, id, receiverID string, flag domain.MessageFlag, value bool) error {
	return r.db.WithContext(ctx).
		Model(&domain.Message{}).
		Where("id = ? AND receiver_id = ?", id, receiverID).
		Update(string(flag), value).Error
}

// DeleteOwned deletes a message scoped to its receiver. It reports whether a row was removed.
func (r *messageRepository) DeleteOwned(ctx context.Context, id, receiverID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND receiver_id = ?", id, receiverID).
		Delete(&domain.Message{})
	return result.RowsAffected > 0, result.Error
}

// CountsByReceiver aggregates flag counts in one query
func (r *messageRepository) CountsByReceiver(ctx context.Context, receiverID string) (*domain.MessageCounts, error) {
	var row struct {
		Total     int64
		Unread    int64
		Favorites int64
		Archived  int64
	}
	err := r.db.WithContext(ctx).
		Model(&domain.Message{}).
		Select(`COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN is_read THEN 0 ELSE 1 END), 0) AS unread,
			COALESCE(SUM(CASE WHEN is_favorite THEN 1 ELSE 0 END), 0) AS favorites,
			COALESCE(SUM(CASE WHEN is_archived THEN 1 ELSE 0 END), 0) AS archived`).
		Where("receiver_id = ?", receiverID).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	return &domain.MessageCounts{
		Total:     row.Total,
		Unread:    row.Unread,
		Favorites: row.Favorites,
		Archived:  row.Archived,
	}, nil
}

// LatestCreatedAt returns the newest message time for receiverID, or nil when there are none
func (r *messageRepository) LatestCreatedAt(ctx context.Context, receiverID string) (*time.Time, error) {
	var messages []domain.Message
	err := r.db.WithContext(ctx).
		Select("created_at").
		Where("receiver_id = ?", receiverID).
		Order("created_at DESC").
		Limit(1).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	if len(messages) == 0 {
		return nil, nil
	}
	t := messages[0].CreatedAt
	return &t, nil
}

// FindAll returns every message, newest first
func (r *messageRepository) FindAll(ctx context.Context) ([]*domain.Message, error) {
	var messages []*domain.Message
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&messages).Error
	return messages, err
}

// DeleteByID deletes any message by id
func (r *messageRepository) DeleteByID(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Message{})
	return result.RowsAffected > 0, result.Error
}

// Stats counts messages across all accounts
func (r *messageRepository) Stats(ctx context.Context) (*domain.AdminStats, error) {
	var row struct {
		Total      int64
		Anonymous  int64
		Registered int64
		Unread     int64
	}
	err := r.db.WithContext(ctx).
		Model(&domain.Message{}).
		Select(`COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN sender_type = ? THEN 1 ELSE 0 END), 0) AS anonymous,
			COALESCE(SUM(CASE WHEN sender_type = ? THEN 1 ELSE 0 END), 0) AS registered,
			COALESCE(SUM(CASE WHEN is_read THEN 0 ELSE 1 END), 0) AS unread`,
			domain.SenderAnonymous, domain.SenderRegistered).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	return &domain.AdminStats{
		TotalMessages:      row.Total,
		AnonymousMessages:  row.Anonymous,
		RegisteredMessages: row.Registered,
		UnreadMessages:     row.Unread,
	}, nil
}
