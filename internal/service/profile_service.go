package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/whisperbox/whisperbox-backend/internal/common"
	"github.com/whisperbox/whisperbox-backend/internal/domain"
	"github.com/whisperbox/whisperbox-backend/internal/repository"
	"github.com/whisperbox/whisperbox-backend/pkg/cache"
	pkglogger "github.com/whisperbox/whisperbox-backend/pkg/logger"
	"gorm.io/gorm"
)

// ProfileService public profile pages and profile settings
type ProfileService struct {
	profiles repository.ProfileRepository
	images   ImageStore
	cache    cache.Service
	bucket   string
}

// NewProfileService creates a new ProfileService
func NewProfileService(profiles repository.ProfileRepository, images ImageStore, cacheService cache.Service, bucket string) *ProfileService {
	return &ProfileService{
		profiles: profiles,
		images:   images,
		cache:    cacheService,
		bucket:   bucket,
	}
}

// GetPublic loads a profile by username through the profile cache
func (s *ProfileService) GetPublic(ctx context.Context, username string) (*domain.Profile, error) {
	var cached domain.Profile
	if err := s.cache.GetProfile(ctx, username, &cached); err == nil {
		return &cached, nil
	}

	profile, err := s.profiles.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	if err := s.cache.SetProfile(ctx, username, profile); err != nil {
		pkglogger.GetLogger().Warn().Err(err).Str("username", username).Msg("profile cache write failed")
	}
	return profile, nil
}

// GetOwn loads the profile of an account
func (s *ProfileService) GetOwn(ctx context.Context, accountID string) (*domain.Profile, error) {
	profile, err := s.profiles.FindByUserID(ctx, accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return profile, nil
}

// Update applies a settings change. A new avatar is uploaded before the
// old object is removed; an upload failure leaves the profile unchanged.
func (s *ProfileService) Update(ctx context.Context, accountID string, fields domain.UpdateProfileFields, avatar *multipart.FileHeader) (*domain.Profile, error) {
	current, err := s.GetOwn(ctx, accountID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}

	username := strings.TrimSpace(fields.Username)
	if username != "" && username != current.Username {
		if err := ValidateUsername(username); err != nil {
			return nil, err
		}
		taken, err := s.profiles.ExistsByUsername(ctx, username, accountID)
		if err != nil {
			return nil, fmt.Errorf("failed to check username: %w", err)
		}
		if taken {
			return nil, common.ErrUsernameTaken
		}
		updates["username"] = username
	}

	displayName := strings.TrimSpace(fields.DisplayName)
	if displayName == "" {
		updates["display_name"] = nil
	} else {
		updates["display_name"] = displayName
	}

	var oldAvatar string
	if current.AvatarURL != nil {
		oldAvatar = *current.AvatarURL
	}

	switch {
	case avatar != nil:
		result := s.images.UploadImage(ctx, avatar, accountID, s.bucket)
		if !result.Success {
			if result.Rejected {
				return nil, fmt.Errorf("%w: %s", common.ErrInvalidImage, result.Error)
			}
			return nil, fmt.Errorf("%w: %s", common.ErrUploadFailed, result.Error)
		}
		updates["avatar_url"] = result.URL
	case fields.RemoveAvatar:
		updates["avatar_url"] = nil
	}

	if err := s.profiles.Update(ctx, accountID, updates); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	if _, changed := updates["avatar_url"]; changed && oldAvatar != "" {
		if !s.images.DeleteImage(ctx, oldAvatar, s.bucket) {
			pkglogger.GetLogger().Warn().Str("account_id", accountID).Str("url", oldAvatar).Msg("old avatar cleanup failed")
		}
	}

	if err := s.cache.InvalidateProfile(ctx, current.Username, username); err != nil {
		pkglogger.GetLogger().Warn().Err(err).Msg("profile cache invalidation failed")
	}

	return s.GetOwn(ctx, accountID)
}
