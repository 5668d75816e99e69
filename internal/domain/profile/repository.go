package profile

import (
	"context"

	"gorm.io/datatypes"
)

type Repository interface {
	GetByUserID(ctx context.Context, userID string) (*Profile, error)
	GetByHandle(ctx context.Context, handle string) (*Profile, error)
	Create(ctx context.Context, profile *Profile) error

	// StageSnapshot writes the candidate copy and bumps updated_at without
	// touching any live column.
	StageSnapshot(ctx context.Context, profileID string, snapshot datatypes.JSON) error
	// MergeRevision applies the given column set in a single update; callers
	// include the snapshot clear in the same statement.
	MergeRevision(ctx context.Context, profileID string, updates map[string]interface{}) error
	ClearSnapshot(ctx context.Context, profileID string) error
	ListPending(ctx context.Context) ([]Profile, error)

	ListPage(ctx context.Context, offset, limit int) ([]Profile, error)
	Count(ctx context.Context) (int64, error)

	AddTags(ctx context.Context, links []UserTag) error
	RemoveTag(ctx context.Context, userID, tagID string) error
	CountTagsByIDs(ctx context.Context, tagIDs []string) (int64, error)
	GetTagsByUserIDs(ctx context.Context, userIDs []string) (map[string][]Tag, error)

	AddAvailability(ctx context.Context, slots []UserAvailability) error
	RemoveAvailability(ctx context.Context, userID string, weekDay, timeSlot int) error
	GetAvailabilityByUserIDs(ctx context.Context, userIDs []string) (map[string][]Slot, error)

	GetMedalsByUserIDs(ctx context.Context, userIDs []string) (map[string][]Medal, error)
	GetDisplayNamesByUserIDs(ctx context.Context, userIDs []string) (map[string]string, error)
}
