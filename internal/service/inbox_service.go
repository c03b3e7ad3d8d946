package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/whisperbox/whisperbox-backend/internal/common"
	"github.com/whisperbox/whisperbox-backend/internal/domain"
	"github.com/whisperbox/whisperbox-backend/internal/repository"
	pkglogger "github.com/whisperbox/whisperbox-backend/pkg/logger"
	"gorm.io/gorm"
)

// ViewCounter counts profile views of an account
type ViewCounter interface {
	CountByAccount(ctx context.Context, accountID string) (int64, error)
}

// InboxService is the receiver's view of their own messages
type InboxService struct {
	messages repository.MessageRepository
	views    ViewCounter
}

// NewInboxService creates a new InboxService
func NewInboxService(messages repository.MessageRepository, views ViewCounter) *InboxService {
	return &InboxService{messages: messages, views: views}
}

// List returns the account's messages split into dashboard views
func (s *InboxService) List(ctx context.Context, accountID, search string) (*domain.InboxViews, error) {
	messages, err := s.messages.FindByReceiver(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}
	return DeriveViews(messages, search), nil
}

// DeriveViews filters a newest-first list into all, favorites and archived.
// search is a case-insensitive substring match on content.
func DeriveViews(messages []*domain.Message, search string) *domain.InboxViews {
	needle := strings.ToLower(strings.TrimSpace(search))
	views := &domain.InboxViews{
		All:       []*domain.InboxMessage{},
		Favorites: []*domain.InboxMessage{},
		Archived:  []*domain.InboxMessage{},
	}

	for _, m := range messages {
		if needle != "" && !strings.Contains(strings.ToLower(m.Content), needle) {
			continue
		}
		item := m.ToInbox()
		switch {
		case m.IsArchived:
			views.Archived = append(views.Archived, item)
		case m.IsFavorite:
			views.All = append(views.All, item)
			views.Favorites = append(views.Favorites, item)
		default:
			views.All = append(views.All, item)
		}
	}
	return views
}

// Toggle flips one flag on an owned message and returns the stored state
func (s *InboxService) Toggle(ctx context.Context, accountID, messageID string, flag domain.MessageFlag) (*domain.InboxMessage, error) {
	if !flag.Valid() {
		return nil, common.ErrInvalidInput
	}

	msg, err := s.messages.FindOwned(ctx, messageID, accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrMessageNotFound
		}
		return nil, fmt.Errorf("failed to load message: %w", err)
	}

	next := !msg.Value(flag)
	if err := s.messages.UpdateFlag(ctx, messageID, accountID, flag, next); err != nil {
		return nil, fmt.Errorf("failed to update message: %w", err)
	}
	msg.Set(flag, next)
	return msg.ToInbox(), nil
}

// Delete removes an owned message
func (s *InboxService) Delete(ctx context.Context, accountID, messageID string) error {
	deleted, err := s.messages.DeleteOwned(ctx, messageID, accountID)
	if err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	if !deleted {
		return common.ErrMessageNotFound
	}
	return nil
}

// Stats returns the dashboard summary for an account
func (s *InboxService) Stats(ctx context.Context, accountID string) (*domain.DashboardStats, error) {
	counts, err := s.messages.CountsByReceiver(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to count messages: %w", err)
	}
	latest, err := s.messages.LatestCreatedAt(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load last activity: %w", err)
	}

	stats := &domain.DashboardStats{
		TotalMessages: counts.Total,
		Unread:        counts.Unread,
		Favorites:     counts.Favorites,
		Archived:      counts.Archived,
		LastActivity:  latest,
	}

	views, err := s.views.CountByAccount(ctx, accountID)
	if err != nil {
		pkglogger.GetLogger().Warn().Err(err).Str("account_id", accountID).Msg("profile view count unavailable")
	}
	stats.ProfileViews = views
	return stats, nil
}
