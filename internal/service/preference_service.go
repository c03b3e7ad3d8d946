package service

import (
	"context"
	"fmt"

	"github.com/whisperbox/whisperbox-backend/internal/domain"
	"github.com/whisperbox/whisperbox-backend/internal/repository"
)

// PreferenceService stores per-account UI state
type PreferenceService struct {
	prefs repository.PreferenceRepository
}

// NewPreferenceService creates a new PreferenceService
func NewPreferenceService(prefs repository.PreferenceRepository) *PreferenceService {
	return &PreferenceService{prefs: prefs}
}

// Onboarding returns whether the account has finished onboarding
func (s *PreferenceService) Onboarding(ctx context.Context, accountID string) (*domain.OnboardingState, error) {
	pref, err := s.prefs.Get(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load preferences: %w", err)
	}
	return &domain.OnboardingState{Completed: pref.OnboardingCompleted}, nil
}

// SetOnboarding stores the onboarding flag
func (s *PreferenceService) SetOnboarding(ctx context.Context, accountID string, completed bool) (*domain.OnboardingState, error) {
	if err := s.prefs.SetOnboardingCompleted(ctx, accountID, completed); err != nil {
		return nil, fmt.Errorf("failed to save preferences: %w", err)
	}
	return &domain.OnboardingState{Completed: completed}, nil
}
