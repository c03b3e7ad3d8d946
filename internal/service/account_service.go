package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/whisperbox/whisperbox-backend/internal/common"
	"github.com/whisperbox/whisperbox-backend/internal/domain"
	"github.com/whisperbox/whisperbox-backend/internal/repository"
	"github.com/whisperbox/whisperbox-backend/pkg/authprovider"
	pkglogger "github.com/whisperbox/whisperbox-backend/pkg/logger"
	"gorm.io/gorm"
)

const (
	minUsernameLength       = 3
	maxUsernameLength       = 50
	minSignupPasswordLength = 8
	minChangePasswordLength = 6

	HomeAdmin     = "/admin"
	HomeDashboard = "/dashboard"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// AuthProvider is the hosted identity service
type AuthProvider interface {
	SignUp(ctx context.Context, email, password string, data map[string]interface{}) (*authprovider.User, error)
	SignIn(ctx context.Context, email, password string) (*authprovider.Session, error)
	UpdateUser(ctx context.Context, accessToken string, attrs authprovider.UserAttributes) (*authprovider.User, error)
}

// AccountService sign-up, login and credential changes
type AccountService struct {
	provider AuthProvider
	profiles repository.ProfileRepository
	roles    repository.RoleRepository
	validate *validator.Validate
}

// NewAccountService creates a new AccountService
func NewAccountService(provider AuthProvider, profiles repository.ProfileRepository, roles repository.RoleRepository) *AccountService {
	return &AccountService{
		provider: provider,
		profiles: profiles,
		roles:    roles,
		validate: validator.New(),
	}
}

// ValidateUsername checks username length and character set
func ValidateUsername(username string) error {
	n := utf8.RuneCountInString(username)
	if n < minUsernameLength || n > maxUsernameLength || !usernamePattern.MatchString(username) {
		return common.ErrInvalidUsername
	}
	return nil
}

// validateSignupPassword requires upper, lower and digit characters
func validateSignupPassword(password string) error {
	if utf8.RuneCountInString(password) < minSignupPasswordLength {
		return common.ErrWeakPassword
	}
	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !upper || !lower || !digit {
		return common.ErrWeakPassword
	}
	return nil
}

func (s *AccountService) validEmail(email string) bool {
	return s.validate.Var(email, "required,email") == nil
}

// Signup creates the provider identity, then the profile row
func (s *AccountService) Signup(ctx context.Context, req *domain.SignupRequest) (*domain.SignupResponse, error) {
	email := strings.TrimSpace(req.Email)
	username := strings.TrimSpace(req.Username)

	if !s.validEmail(email) {
		return nil, common.ErrInvalidEmail
	}
	if err := validateSignupPassword(req.Password); err != nil {
		return nil, err
	}
	if req.Password != req.ConfirmPassword {
		return nil, common.ErrPasswordMismatch
	}
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}

	taken, err := s.profiles.ExistsByUsername(ctx, username, "")
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if taken {
		return nil, common.ErrUsernameTaken
	}

	user, err := s.provider.SignUp(ctx, email, req.Password, map[string]interface{}{"username": username})
	if err != nil {
		return nil, providerError(err)
	}

	profile := &domain.Profile{UserID: user.ID, Username: username}
	if err := s.profiles.Create(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	pkglogger.GetLogger().Info().Str("account_id", user.ID).Str("username", username).Msg("account created")
	return &domain.SignupResponse{AccountID: user.ID, Profile: profile}, nil
}

// Login performs a password grant and picks the landing route
func (s *AccountService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error) {
	email := strings.TrimSpace(req.Email)
	if !s.validEmail(email) {
		return nil, common.ErrInvalidEmail
	}
	if req.Password == "" {
		return nil, common.ErrInvalidCredentials
	}

	session, err := s.provider.SignIn(ctx, email, req.Password)
	if err != nil {
		var apiErr *authprovider.APIError
		if errors.As(err, &apiErr) && (apiErr.StatusCode == http.StatusBadRequest || apiErr.StatusCode == http.StatusUnauthorized) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, providerError(err)
	}

	return &domain.LoginResponse{
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		ExpiresIn:    session.ExpiresIn,
		AccountID:    session.User.ID,
		Home:         s.HomeRoute(ctx, session.User.ID),
	}, nil
}

// HomeRoute is /admin for admins and /dashboard otherwise. Role lookup
// failures fall back to /dashboard.
func (s *AccountService) HomeRoute(ctx context.Context, accountID string) string {
	isAdmin, err := s.roles.HasRole(ctx, accountID, domain.RoleAdmin)
	if err != nil {
		pkglogger.GetLogger().Warn().Err(err).Str("account_id", accountID).Msg("role lookup failed")
		return HomeDashboard
	}
	if isAdmin {
		return HomeAdmin
	}
	return HomeDashboard
}

// Me describes the signed-in account
func (s *AccountService) Me(ctx context.Context, accountID, email string) (*domain.MeResponse, error) {
	resp := &domain.MeResponse{AccountID: accountID, Email: email}

	profile, err := s.profiles.FindByUserID(ctx, accountID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	resp.Profile = profile

	resp.Home = s.HomeRoute(ctx, accountID)
	resp.IsAdmin = resp.Home == HomeAdmin
	return resp, nil
}

// ChangeEmail updates the login email of the session owner
func (s *AccountService) ChangeEmail(ctx context.Context, accessToken, currentEmail string, req *domain.ChangeEmailRequest) error {
	newEmail := strings.TrimSpace(req.NewEmail)
	if !s.validEmail(newEmail) {
		return common.ErrInvalidEmail
	}
	if newEmail != strings.TrimSpace(req.ConfirmEmail) {
		return common.ErrEmailMismatch
	}
	if strings.EqualFold(newEmail, currentEmail) {
		return common.ErrEmailUnchanged
	}

	if _, err := s.provider.UpdateUser(ctx, accessToken, authprovider.UserAttributes{Email: newEmail}); err != nil {
		return providerError(err)
	}
	return nil
}

// ChangePassword updates the password of the session owner
func (s *AccountService) ChangePassword(ctx context.Context, accessToken string, req *domain.ChangePasswordRequest) error {
	if req.NewPassword != req.ConfirmPassword {
		return common.ErrPasswordMismatch
	}
	if utf8.RuneCountInString(req.NewPassword) < minChangePasswordLength {
		return common.ErrPasswordTooShort
	}

	if _, err := s.provider.UpdateUser(ctx, accessToken, authprovider.UserAttributes{Password: req.NewPassword}); err != nil {
		return providerError(err)
	}
	return nil
}

func providerError(err error) error {
	var apiErr *authprovider.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%w: %s", common.ErrAuthProvider, apiErr.Message)
	}
	return fmt.Errorf("%w: %v", common.ErrAuthProvider, err)
}
