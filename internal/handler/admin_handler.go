package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/whisperbox/whisperbox-backend/internal/common"
	"github.com/whisperbox/whisperbox-backend/internal/middleware"
	"github.com/whisperbox/whisperbox-backend/internal/service"
)

// AdminHandler moderation console. Routes are gated by RequireAdminRole.
type AdminHandler struct {
	admin *service.AdminService
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(admin *service.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

// ListMessages handles GET /api/v1/admin/messages
func (h *AdminHandler) ListMessages(c *gin.Context) {
	search := c.Query("search")
	messages, err := h.admin.ListMessages(c.Request.Context(), search)
	if err != nil {
		respondError(c, err, "Failed to load messages")
		return
	}
	common.SuccessWithMeta(c, messages, &common.Meta{Total: int64(len(messages)), Search: search})
}

// DeleteMessage handles DELETE /api/v1/admin/messages/:id
func (h *AdminHandler) DeleteMessage(c *gin.Context) {
	if err := h.admin.DeleteMessage(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete message")
		return
	}
	common.Success(c, gin.H{"deleted": true})
}

// ListUsers handles GET /api/v1/admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	search := c.Query("search")
	users, err := h.admin.ListUsers(c.Request.Context(), search)
	if err != nil {
		respondError(c, err, "Failed to load users")
		return
	}
	common.SuccessWithMeta(c, users, &common.Meta{Total: int64(len(users)), Search: search})
}

// DeleteUser handles DELETE /api/v1/admin/users/:id
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	result, err := h.admin.DeleteUser(c.Request.Context(), middleware.GetAccountID(c), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to delete user")
		return
	}
	common.Success(c, result)
}

// Stats handles GET /api/v1/admin/stats
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.admin.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to load stats")
		return
	}
	common.Success(c, stats)
}
