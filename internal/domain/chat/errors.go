package chat

import "errors"

var (
	ErrReceiverNotFound   = errors.New("receiver not found")
	ErrEmptyMessage       = errors.New("message content is empty")
	ErrModerationRejected = errors.New("content rejected by moderation")
)
