package repository

import (
	"context"
	"errors"

	"github.com/whisperbox/whisperbox-backend/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PreferenceRepository per-account preference state
type PreferenceRepository interface {
	Get(ctx context.Context, userID string) (*domain.AccountPreference, error)
	SetOnboardingCompleted(ctx context.Context, userID string, completed bool) error
}

type preferenceRepository struct {
	db *gorm.DB
}

// NewPreferenceRepository creates a new PreferenceRepository
func NewPreferenceRepository(db *gorm.DB) PreferenceRepository {
	return &preferenceRepository{db: db}
}

// Get returns the stored preferences, or defaults when none were written yet
func (r *preferenceRepository) Get(ctx context.Context, userID string) (*domain.AccountPreference, error) {
	var pref domain.AccountPreference
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&pref).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &domain.AccountPreference{UserID: userID}, nil
	}
	if err != nil {
		return nil, err
	}
	return &pref, nil
}

// SetOnboardingCompleted upserts the onboarding flag
func (r *preferenceRepository) SetOnboardingCompleted(ctx context.Context, userID string, completed bool) error {
	pref := &domain.AccountPreference{UserID: userID, OnboardingCompleted: completed}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"onboarding_completed", "updated_at"}),
		}).
		Create(pref).Error
}
