package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/whisperbox/whisperbox-backend/internal/common"
	"github.com/whisperbox/whisperbox-backend/internal/domain"
	"github.com/whisperbox/whisperbox-backend/internal/repository"
	"github.com/whisperbox/whisperbox-backend/pkg/cache"
	pkglogger "github.com/whisperbox/whisperbox-backend/pkg/logger"
	"gorm.io/gorm"
)

// AdminService cross-account moderation
type AdminService struct {
	messages repository.MessageRepository
	profiles repository.ProfileRepository
	roles    repository.RoleRepository
	accounts repository.AccountRepository
	images   ImageStore
	cache    cache.Service
	bucket   string
}

// NewAdminService creates a new AdminService
func NewAdminService(
	messages repository.MessageRepository,
	profiles repository.ProfileRepository,
	roles repository.RoleRepository,
	accounts repository.AccountRepository,
	images ImageStore,
	cacheService cache.Service,
	bucket string,
) *AdminService {
	return &AdminService{
		messages: messages,
		profiles: profiles,
		roles:    roles,
		accounts: accounts,
		images:   images,
		cache:    cacheService,
		bucket:   bucket,
	}
}

// IsAdmin reports whether the account holds the admin role
func (s *AdminService) IsAdmin(ctx context.Context, accountID string) (bool, error) {
	return s.roles.HasRole(ctx, accountID, domain.RoleAdmin)
}

// ListMessages returns every message joined with sender and receiver usernames
func (s *AdminService) ListMessages(ctx context.Context, search string) ([]*domain.AdminMessage, error) {
	messages, err := s.messages.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}

	seen := make(map[string]struct{})
	ids := make([]string, 0, len(messages))
	addID := func(id string) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	for _, m := range messages {
		addID(m.ReceiverID)
		if m.SenderUserID != nil {
			addID(*m.SenderUserID)
		}
	}

	usernames, err := s.profiles.FindUsernamesByUserIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load usernames: %w", err)
	}

	result := make([]*domain.AdminMessage, 0, len(messages))
	for _, m := range messages {
		result = append(result, joinUsernames(m, usernames))
	}
	return FilterAdminMessages(result, search), nil
}

func joinUsernames(m *domain.Message, usernames map[string]string) *domain.AdminMessage {
	item := &domain.AdminMessage{Message: m, ReceiverUsername: domain.UnknownUsername}
	if name, ok := usernames[m.ReceiverID]; ok {
		item.ReceiverUsername = name
	}
	if m.SenderUserID != nil {
		sender := domain.UnknownUsername
		if name, ok := usernames[*m.SenderUserID]; ok {
			sender = name
		}
		item.SenderUsername = &sender
	}
	return item
}

// FilterAdminMessages keeps messages whose content, receiver or sender
// username contains search, ignoring case
func FilterAdminMessages(messages []*domain.AdminMessage, search string) []*domain.AdminMessage {
	needle := strings.ToLower(strings.TrimSpace(search))
	if needle == "" {
		return messages
	}

	filtered := make([]*domain.AdminMessage, 0, len(messages))
	for _, m := range messages {
		if strings.Contains(strings.ToLower(m.Content), needle) ||
			strings.Contains(strings.ToLower(m.ReceiverUsername), needle) ||
			(m.SenderUsername != nil && strings.Contains(strings.ToLower(*m.SenderUsername), needle)) {
			filtered = append(filtered, m)
		}
	}
	return filtered
}

// DeleteMessage removes any message
func (s *AdminService) DeleteMessage(ctx context.Context, messageID string) error {
	deleted, err := s.messages.DeleteByID(ctx, messageID)
	if err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	if !deleted {
		return common.ErrMessageNotFound
	}
	pkglogger.GetLogger().Info().Str("message_id", messageID).Msg("admin deleted message")
	return nil
}

// ListUsers returns profiles with their roles
func (s *AdminService) ListUsers(ctx context.Context, search string) ([]*domain.AdminUser, error) {
	profiles, err := s.profiles.List(ctx, strings.TrimSpace(search))
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}

	ids := make([]string, 0, len(profiles))
	for _, p := range profiles {
		ids = append(ids, p.UserID)
	}
	roles, err := s.roles.FindRolesByUserIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load roles: %w", err)
	}

	users := make([]*domain.AdminUser, 0, len(profiles))
	for _, p := range profiles {
		user := &domain.AdminUser{Profile: p, Roles: roles[p.UserID]}
		if user.Roles == nil {
			user.Roles = []string{}
		}
		for _, r := range user.Roles {
			if r == domain.RoleAdmin {
				user.IsAdmin = true
			}
		}
		users = append(users, user)
	}
	return users, nil
}

// DeleteUser removes an account's data in one transaction. The avatar
// object and profile cache are cleaned up afterwards on a best-effort basis.
// The identity held by the auth provider is not touched.
func (s *AdminService) DeleteUser(ctx context.Context, actorID, accountID string) (*repository.CascadeResult, error) {
	if actorID == accountID {
		return nil, common.ErrCannotDeleteSelf
	}

	profile, err := s.profiles.FindByUserID(ctx, accountID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	result, err := s.accounts.DeleteAccountCascade(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete user: %w", err)
	}

	log := pkglogger.GetLogger()
	if profile != nil {
		if profile.AvatarURL != nil && *profile.AvatarURL != "" && s.images != nil {
			if !s.images.DeleteImage(ctx, *profile.AvatarURL, s.bucket) {
				log.Warn().Str("account_id", accountID).Msg("avatar cleanup failed")
			}
		}
		if err := s.cache.InvalidateProfile(ctx, profile.Username); err != nil {
			log.Warn().Err(err).Str("username", profile.Username).Msg("profile cache invalidation failed")
		}
	}

	log.Warn().
		Str("actor_id", actorID).
		Str("account_id", accountID).
		Int64("messages", result.Messages).
		Int64("profiles", result.Profiles).
		Msg("account data deleted; auth identity left in place")
	return result, nil
}

// Stats returns moderation counters
func (s *AdminService) Stats(ctx context.Context) (*domain.AdminStats, error) {
	stats, err := s.messages.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count messages: %w", err)
	}
	users, err := s.profiles.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	stats.TotalUsers = users
	return stats, nil
}
