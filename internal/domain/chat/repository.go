package chat

import (
	"context"
	"time"
)

type Repository interface {
	// ListInvolving returns every message the user sent or received.
	ListInvolving(ctx context.Context, userID string) ([]Message, error)
	// ListBetween returns all messages between the two participants, either
	// direction, newest first.
	ListBetween(ctx context.Context, userID, counterpartID string) ([]Message, error)
	Create(ctx context.Context, message *Message) error
	// Touch sets updated_at on one message; used for the read marker.
	Touch(ctx context.Context, messageID string, at time.Time) error
}
