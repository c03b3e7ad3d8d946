package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/whisperbox/whisperbox-backend/internal/common"
	"github.com/whisperbox/whisperbox-backend/internal/domain"
	"github.com/whisperbox/whisperbox-backend/internal/middleware"
	"github.com/whisperbox/whisperbox-backend/internal/service"
)

// ProfileHandler public profile pages and the owner's profile settings
type ProfileHandler struct {
	profiles *service.ProfileService
	views    *service.ProfileViewService
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(profiles *service.ProfileService, views *service.ProfileViewService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, views: views}
}

// GetPublic handles GET /api/v1/profiles/:username
func (h *ProfileHandler) GetPublic(c *gin.Context) {
	profile, err := h.profiles.GetPublic(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, err, "Failed to load profile")
		return
	}

	// recorded in the background; never delays or fails the page
	h.views.Track(c.Request.Context(), profile.ID, clientEnv(c, domain.ClientInfo{}))

	common.Success(c, profile.ToPublic())
}

// GetOwn handles GET /api/v1/me/profile
func (h *ProfileHandler) GetOwn(c *gin.Context) {
	profile, err := h.profiles.GetOwn(c.Request.Context(), middleware.GetAccountID(c))
	if err != nil {
		respondError(c, err, "Failed to load profile")
		return
	}
	common.Success(c, profile)
}

// Update handles PUT /api/v1/me/profile (multipart/form-data)
func (h *ProfileHandler) Update(c *gin.Context) {
	var fields domain.UpdateProfileFields
	if err := c.ShouldBind(&fields); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid form data", err)
		return
	}

	avatar, err := c.FormFile("avatar")
	if err != nil && !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart) {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid avatar upload", err)
		return
	}

	profile, err := h.profiles.Update(c.Request.Context(), middleware.GetAccountID(c), fields, avatar)
	if err != nil {
		respondError(c, err, "Failed to update profile")
		return
	}
	common.Success(c, profile)
}

// ViewCount handles GET /api/v1/me/profile-views
func (h *ProfileHandler) ViewCount(c *gin.Context) {
	count, err := h.views.CountByAccount(c.Request.Context(), middleware.GetAccountID(c))
	if err != nil {
		respondError(c, err, "Failed to count profile views")
		return
	}
	common.Success(c, gin.H{"count": count})
}
