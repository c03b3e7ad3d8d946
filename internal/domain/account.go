package domain

import "time"

// RoleAdmin grants cross-account moderation access
const RoleAdmin = "admin"

// UserRole grants a role to an account
type UserRole struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID    string    `gorm:"column:user_id;size:36;not null;uniqueIndex:idx_user_role" json:"user_id"`
	Role      string    `gorm:"column:role;size:32;not null;uniqueIndex:idx_user_role" json:"role"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (UserRole) TableName() string { return "user_roles" }

// AccountPreference holds per-account UI state
type AccountPreference struct {
	UserID              string    `gorm:"column:user_id;primaryKey;size:36" json:"user_id"`
	OnboardingCompleted bool      `gorm:"column:onboarding_completed;not null;default:false" json:"onboarding_completed"`
	UpdatedAt           time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (AccountPreference) TableName() string { return "account_preferences" }

// SignupRequest body of POST /auth/signup
type SignupRequest struct {
	Email           string `json:"email" binding:"required"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
	Username        string `json:"username" binding:"required"`
}

// LoginRequest body of POST /auth/login
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse session plus the route the client should land on
type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	AccountID    string `json:"account_id"`
	Home         string `json:"home"`
}

// SignupResponse result of a successful sign-up
type SignupResponse struct {
	AccountID string   `json:"account_id"`
	Profile   *Profile `json:"profile"`
}

// ChangeEmailRequest body of PUT /me/email
type ChangeEmailRequest struct {
	NewEmail     string `json:"new_email" binding:"required"`
	ConfirmEmail string `json:"confirm_email" binding:"required"`
}

// ChangePasswordRequest body of PUT /me/password
type ChangePasswordRequest struct {
	NewPassword     string `json:"new_password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

// MeResponse describes the signed-in account
type MeResponse struct {
	AccountID string   `json:"account_id"`
	Email     string   `json:"email"`
	IsAdmin   bool     `json:"is_admin"`
	Home      string   `json:"home"`
	Profile   *Profile `json:"profile"`
}

// OnboardingState body of GET/PUT /me/onboarding
type OnboardingState struct {
	Completed bool `json:"completed"`
}
