package user

import "context"

type Repository interface {
	// Upsert inserts the user or refreshes name/email on an existing row.
	// Role is never changed by an upsert.
	Upsert(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	Exists(ctx context.Context, id string) (bool, error)
}
