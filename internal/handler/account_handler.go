package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/whisperbox/whisperbox-backend/internal/common"
	"github.com/whisperbox/whisperbox-backend/internal/domain"
	"github.com/whisperbox/whisperbox-backend/internal/middleware"
	"github.com/whisperbox/whisperbox-backend/internal/service"
)

// AccountHandler sign-up, login and account settings
type AccountHandler struct {
	accounts    *service.AccountService
	preferences *service.PreferenceService
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(accounts *service.AccountService, preferences *service.PreferenceService) *AccountHandler {
	return &AccountHandler{accounts: accounts, preferences: preferences}
}

// Signup handles POST /api/v1/auth/signup
func (h *AccountHandler) Signup(c *gin.Context) {
	var req domain.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	resp, err := h.accounts.Signup(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to create account")
		return
	}
	common.Created(c, resp)
}

// Login handles POST /api/v1/auth/login
func (h *AccountHandler) Login(c *gin.Context) {
	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	resp, err := h.accounts.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to sign in")
		return
	}
	common.Success(c, resp)
}

// Me handles GET /api/v1/me
func (h *AccountHandler) Me(c *gin.Context) {
	resp, err := h.accounts.Me(c.Request.Context(), middleware.GetAccountID(c), middleware.GetEmail(c))
	if err != nil {
		respondError(c, err, "Failed to load account")
		return
	}
	common.Success(c, resp)
}

// ChangeEmail handles PUT /api/v1/me/email
func (h *AccountHandler) ChangeEmail(c *gin.Context) {
	var req domain.ChangeEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	err := h.accounts.ChangeEmail(c.Request.Context(), middleware.GetAccessToken(c), middleware.GetEmail(c), &req)
	if err != nil {
		respondError(c, err, "Failed to update email")
		return
	}
	common.Success(c, gin.H{"message": "Check your new inbox to confirm the change"})
}

// ChangePassword handles PUT /api/v1/me/password
func (h *AccountHandler) ChangePassword(c *gin.Context) {
	var req domain.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.accounts.ChangePassword(c.Request.Context(), middleware.GetAccessToken(c), &req); err != nil {
		respondError(c, err, "Failed to update password")
		return
	}
	common.Success(c, gin.H{"message": "Password updated"})
}

// GetOnboarding handles GET /api/v1/me/onboarding
func (h *AccountHandler) GetOnboarding(c *gin.Context) {
	state, err := h.preferences.Onboarding(c.Request.Context(), middleware.GetAccountID(c))
	if err != nil {
		respondError(c, err, "Failed to load onboarding state")
		return
	}
	common.Success(c, state)
}

// SetOnboarding handles PUT /api/v1/me/onboarding
func (h *AccountHandler) SetOnboarding(c *gin.Context) {
	var req domain.OnboardingState
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	state, err := h.preferences.SetOnboarding(c.Request.Context(), middleware.GetAccountID(c), req.Completed)
	if err != nil {
		respondError(c, err, "Failed to save onboarding state")
		return
	}
	common.Success(c, state)
}
