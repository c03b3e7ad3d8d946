package common

import "errors"

// Business logic errors
var (
	// General errors
	ErrNotFound     = errors.New("resource not found")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidInput = errors.New("invalid input")

	// Message errors
	ErrEmptyMessage    = errors.New("message cannot be empty")
	ErrMessageTooLong  = errors.New("message is too long")
	ErrMessageNotFound = errors.New("message not found")

	// Profile errors
	ErrProfileNotFound = errors.New("profile not found")
	ErrUsernameTaken   = errors.New("username is already taken")
	ErrInvalidUsername = errors.New("username must be at least 3 characters and contain only letters, numbers, and underscores")

	// Account errors
	ErrWeakPassword       = errors.New("password must be at least 8 characters and include uppercase, lowercase, and a number")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrEmailMismatch      = errors.New("email addresses do not match")
	ErrEmailUnchanged     = errors.New("new email must be different from the current email")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAuthProvider       = errors.New("auth provider request failed")

	// Admin errors
	ErrCannotDeleteSelf = errors.New("admins cannot delete their own account")

	// Upload errors
	ErrStorageUnavailable = errors.New("storage is not configured")
	ErrInvalidImage       = errors.New("invalid image")
	ErrUploadFailed       = errors.New("upload failed")
)
