package service

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/whisperbox/whisperbox-backend/internal/domain"
	"github.com/whisperbox/whisperbox-backend/internal/repository"
	pkglogger "github.com/whisperbox/whisperbox-backend/pkg/logger"
)

var profileViewsRecorded = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "whisperbox_profile_views_recorded_total",
		Help: "Profile view recording attempts by result",
	},
	[]string{"result"},
)

// ProfileViewService records and counts profile page loads
type ProfileViewService struct {
	views     repository.ProfileViewRepository
	profiles  repository.ProfileRepository
	collector *MetadataCollector
	timeout   time.Duration
}

// NewProfileViewService creates a ProfileViewService. timeout bounds one Record call.
func NewProfileViewService(
	views repository.ProfileViewRepository,
	profiles repository.ProfileRepository,
	collector *MetadataCollector,
	timeout time.Duration,
) *ProfileViewService {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &ProfileViewService{
		views:     views,
		profiles:  profiles,
		collector: collector,
		timeout:   timeout,
	}
}

// Record appends a view row. Failures are logged and swallowed.
func (s *ProfileViewService) Record(ctx context.Context, profileID string, env ClientEnv) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	view := &domain.ProfileView{
		ProfileID:       profileID,
		ViewerIP:        s.collector.ResolveIP(ctx, env),
		ViewerUserAgent: env.UserAgent,
		ViewedAt:        time.Now().UTC(),
	}
	if env.Referrer != "" {
		ref := env.Referrer
		view.Referrer = &ref
	}

	if err := s.views.Create(ctx, view); err != nil {
		profileViewsRecorded.WithLabelValues("error").Inc()
		pkglogger.GetLogger().Warn().Err(err).Str("profile_id", profileID).Msg("failed to record profile view")
		return
	}
	profileViewsRecorded.WithLabelValues("ok").Inc()
}

// Track records a view in the background, detached from the request's cancellation
func (s *ProfileViewService) Track(ctx context.Context, profileID string, env ClientEnv) {
	go s.Record(context.WithoutCancel(ctx), profileID, env)
}

// Count returns the number of recorded views of a profile
func (s *ProfileViewService) Count(ctx context.Context, profileID string) (int64, error) {
	count, err := s.views.CountByProfile(ctx, profileID)
	if err != nil {
		return 0, fmt.Errorf("count profile views: %w", err)
	}
	return count, nil
}

// CountByAccount resolves the account's profile, then counts its views.
// On lookup failure the count is zero and the error describes why.
func (s *ProfileViewService) CountByAccount(ctx context.Context, accountID string) (int64, error) {
	profile, err := s.profiles.FindByUserID(ctx, accountID)
	if err != nil {
		return 0, fmt.Errorf("profile lookup for account %s failed: %w", accountID, err)
	}
	return s.Count(ctx, profile.ID)
}
