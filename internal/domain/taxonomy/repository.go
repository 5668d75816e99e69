package taxonomy

import "context"

type Repository interface {
	ListTags(ctx context.Context) ([]Tag, error)
	GetTagByID(ctx context.Context, id string) (*Tag, error)
	CreateTag(ctx context.Context, tag *Tag) error
	UpdateTag(ctx context.Context, tag *Tag) error
	DeleteTag(ctx context.Context, id string) (bool, error)
	CountTagsByContent(ctx context.Context, category, content, excludeID string) (int64, error)

	ListMedals(ctx context.Context) ([]Medal, error)
	GetMedalByID(ctx context.Context, id string) (*Medal, error)
	CreateMedal(ctx context.Context, medal *Medal) error
	UpdateMedal(ctx context.Context, medal *Medal) error
	DeleteMedal(ctx context.Context, id string) (bool, error)

	// GrantMedal inserts a user_medal link; duplicate grants are no-ops.
	GrantMedal(ctx context.Context, userID, medalID string) error
}
