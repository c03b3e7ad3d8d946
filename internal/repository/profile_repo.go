package repository

import (
	"context"
	"strings"

	"github.com/whisperbox/whisperbox-backend/internal/domain"
	"gorm.io/gorm"
)

// ProfileRepository profile data access interface
type ProfileRepository interface {
	Create(ctx context.Context, profile *domain.Profile) error
	FindByUsername(ctx context.Context, username string) (*domain.Profile, error)
	FindByUserID(ctx context.Context, userID string) (*domain.Profile, error)
	FindUsernamesByUserIDs(ctx context.Context, userIDs []string) (map[string]string, error)
	ExistsByUsername(ctx context.Context, username, excludeUserID string) (bool, error)
	Update(ctx context.Context, userID string, fields map[string]interface{}) error
	List(ctx context.Context, search string) ([]*domain.Profile, error)
	Count(ctx context.Context) (int64, error)
}

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Create(ctx context.Context, profile *domain.Profile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

func (r *profileRepository) FindByUsername(ctx context.Context, username string) (*domain.Profile, error) {
	var profile domain.Profile
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) FindByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	var profile domain.Profile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// FindUsernamesByUserIDs resolves many account ids to usernames in one query.
// Ids without a profile are absent from the map.
func (r *profileRepository) FindUsernamesByUserIDs(ctx context.Context, userIDs []string) (map[string]string, error) {
	result := make(map[string]string, len(userIDs))
	if len(userIDs) == 0 {
		return result, nil
	}

	var rows []struct {
		UserID   string
		Username string
	}
	err := r.db.WithContext(ctx).
		Model(&domain.Profile{}).
		Select("user_id, username").
		Where("user_id IN ?", userIDs).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		result[row.UserID] = row.Username
	}
	return result, nil
}

// ExistsByUsername checks whether another account already uses username
func (r *profileRepository) ExistsByUsername(ctx context.Context, username, excludeUserID string) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&domain.Profile{}).Where("username = ?", username)
	if excludeUserID != "" {
		query = query.Where("user_id <> ?", excludeUserID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Update applies column updates to the profile owned by userID
func (r *profileRepository) Update(ctx context.Context, userID string, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Profile{}).
		Where("user_id = ?", userID).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List returns profiles ordered by username, optionally filtered by a case-insensitive substring
func (r *profileRepository) List(ctx context.Context, search string) ([]*domain.Profile, error) {
	var profiles []*domain.Profile
	query := r.db.WithContext(ctx).Order("username ASC")
	if s := strings.TrimSpace(search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		query = query.Where("LOWER(username) LIKE ? OR LOWER(COALESCE(display_name, '')) LIKE ?", like, like)
	}
	err := query.Find(&profiles).Error
	return profiles, err
}

func (r *profileRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Profile{}).Count(&count).Error
	return count, err
}
