package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/whisperbox/whisperbox-backend/internal/common"
	"github.com/whisperbox/whisperbox-backend/internal/domain"
	"github.com/whisperbox/whisperbox-backend/internal/middleware"
	"github.com/whisperbox/whisperbox-backend/internal/service"
)

// InboxHandler serves the receiver's dashboard
type InboxHandler struct {
	inbox *service.InboxService
}

// NewInboxHandler creates a new InboxHandler
func NewInboxHandler(inbox *service.InboxService) *InboxHandler {
	return &InboxHandler{inbox: inbox}
}

// List handles GET /api/v1/me/messages
func (h *InboxHandler) List(c *gin.Context) {
	search := c.Query("search")
	views, err := h.inbox.List(c.Request.Context(), middleware.GetAccountID(c), search)
	if err != nil {
		respondError(c, err, "Failed to load messages")
		return
	}
	common.SuccessWithMeta(c, views, &common.Meta{Total: int64(len(views.All)), Search: search})
}

// ToggleFavorite handles PATCH /api/v1/me/messages/:id/favorite
func (h *InboxHandler) ToggleFavorite(c *gin.Context) {
	h.toggle(c, domain.FlagFavorite)
}

// ToggleArchive handles PATCH /api/v1/me/messages/:id/archive
func (h *InboxHandler) ToggleArchive(c *gin.Context) {
	h.toggle(c, domain.FlagArchived)
}

// ToggleRead handles PATCH /api/v1/me/messages/:id/read
func (h *InboxHandler) ToggleRead(c *gin.Context) {
	h.toggle(c, domain.FlagRead)
}

func (h *InboxHandler) toggle(c *gin.Context, flag domain.MessageFlag) {
	msg, err := h.inbox.Toggle(c.Request.Context(), middleware.GetAccountID(c), c.Param("id"), flag)
	if err != nil {
		respondError(c, err, "Failed to update message")
		return
	}
	common.Success(c, msg)
}

// Delete handles DELETE /api/v1/me/messages/:id
func (h *InboxHandler) Delete(c *gin.Context) {
	if err := h.inbox.Delete(c.Request.Context(), middleware.GetAccountID(c), c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete message")
		return
	}
	common.Success(c, gin.H{"deleted": true})
}

// Stats handles GET /api/v1/me/stats
func (h *InboxHandler) Stats(c *gin.Context) {
	stats, err := h.inbox.Stats(c.Request.Context(), middleware.GetAccountID(c))
	if err != nil {
		respondError(c, err, "Failed to load stats")
		return
	}
	common.Success(c, stats)
}
