package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/whisperbox/whisperbox-backend/internal/common"
)

// statusFor maps a service error onto an HTTP status
func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrEmptyMessage),
		errors.Is(err, common.ErrMessageTooLong),
		errors.Is(err, common.ErrInvalidInput),
		errors.Is(err, common.ErrInvalidUsername),
		errors.Is(err, common.ErrWeakPassword),
		errors.Is(err, common.ErrPasswordTooShort),
		errors.Is(err, common.ErrPasswordMismatch),
		errors.Is(err, common.ErrEmailMismatch),
		errors.Is(err, common.ErrEmailUnchanged),
		errors.Is(err, common.ErrInvalidEmail),
		errors.Is(err, common.ErrInvalidImage),
		errors.Is(err, common.ErrCannotDeleteSelf):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrInvalidCredentials), errors.Is(err, common.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, common.ErrNotFound),
		errors.Is(err, common.ErrMessageNotFound),
		errors.Is(err, common.ErrProfileNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrUsernameTaken):
		return http.StatusConflict
	case errors.Is(err, common.ErrAuthProvider), errors.Is(err, common.ErrUploadFailed):
		return http.StatusBadGateway
	case errors.Is(err, common.ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// respondError writes the error envelope. Client errors carry the sentinel
// text as the message; server errors use fallback and put the cause in details.
func respondError(c *gin.Context, err error, fallback string) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		common.ErrorResponse(c, status, fallback, err)
		return
	}
	common.ErrorResponse(c, status, err.Error(), nil)
}
