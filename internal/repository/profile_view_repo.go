package repository

import (
	"context"

	"github.com/whisperbox/whisperbox-backend/internal/domain"
	"gorm.io/gorm"
)

// ProfileViewRepository append-only profile view log
type ProfileViewRepository interface {
	Create(ctx context.Context, view *domain.ProfileView) error
	CountByProfile(ctx context.Context, profileID string) (int64, error)
}

type profileViewRepository struct {
	db *gorm.DB
}

// NewProfileViewRepository creates a new ProfileViewRepository
func NewProfileViewRepository(db *gorm.DB) ProfileViewRepository {
	return &profileViewRepository{db: db}
}

func (r *profileViewRepository) Create(ctx context.Context, view *domain.ProfileView) error {
	return r.db.WithContext(ctx).Create(view).Error
}

func (r *profileViewRepository) CountByProfile(ctx context.Context, profileID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.ProfileView{}).
		Where("profile_id = ?", profileID).
		Count(&count).Error
	return count, err
}
