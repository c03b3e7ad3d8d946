package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/whisperbox/whisperbox-backend/internal/common"
	"github.com/whisperbox/whisperbox-backend/internal/domain"
	"github.com/whisperbox/whisperbox-backend/internal/middleware"
	"github.com/whisperbox/whisperbox-backend/internal/service"
)

// MessageHandler handles message submission
type MessageHandler struct {
	service *service.MessageService
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(service *service.MessageService) *MessageHandler {
	return &MessageHandler{service: service}
}

// clientEnv collects what the request says about the visitor
func clientEnv(c *gin.Context, info domain.ClientInfo) service.ClientEnv {
	return service.ClientEnv{
		UserAgent:      c.GetHeader("User-Agent"),
		AcceptLanguage: c.GetHeader("Accept-Language"),
		PlatformHint:   c.GetHeader("Sec-CH-UA-Platform"),
		Referrer:       c.GetHeader("Referer"),
		RemoteIP:       c.ClientIP(),
		Client:         info,
	}
}

// Submit handles POST /api/v1/profiles/:username/messages
func (h *MessageHandler) Submit(c *gin.Context) {
	var req domain.SubmitMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	msg, err := h.service.Submit(c.Request.Context(), service.SubmitInput{
		ReceiverUsername: c.Param("username"),
		Content:          req.Content,
		SenderAccountID:  middleware.GetAccountID(c),
		Env:              clientEnv(c, req.Client),
	})
	if err != nil {
		respondError(c, err, "Failed to send message")
		return
	}

	common.Created(c, msg.ToInbox())
}
