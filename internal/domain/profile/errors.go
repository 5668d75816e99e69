package profile

import "errors"

var (
	ErrProfileNotFound    = errors.New("profile not found")
	ErrHandleRequired     = errors.New("handle is required")
	ErrHandleTooShort     = errors.New("handle must be at least 10 characters")
	ErrHandleInvalid      = errors.New("handle may only contain letters, digits, underscore and hyphen")
	ErrHandleTaken        = errors.New("handle already exists")
	ErrModerationRejected = errors.New("content rejected by moderation")
	ErrNoPendingRevision  = errors.New("no pending revision")
	ErrNotVerified        = errors.New("profile is not verified")
	ErrTagNotFound        = errors.New("tag not found")
	ErrInvalidSlot        = errors.New("invalid availability slot")
)
