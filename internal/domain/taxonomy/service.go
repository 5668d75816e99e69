package taxonomy

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const defaultCacheTTL = time.Minute

// UserChecker reports whether a user id exists; used to validate medal
// grant targets.
type UserChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

type Service struct {
	repo     Repository
	users    UserChecker
	cache    TagsCache
	cacheTTL time.Duration
}

func NewService(repo Repository, users UserChecker, cache TagsCache) *Service {
	if cache == nil {
		cache = noopTagsCache{}
	}
	return &Service{
		repo:     repo,
		users:    users,
		cache:    cache,
		cacheTTL: defaultCacheTTL,
	}
}

func (s *Service) ListTags(ctx context.Context) ([]Tag, error) {
	if tags, ok := s.cache.Get(); ok {
		return tags, nil
	}

	tags, err := s.repo.ListTags(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Set(tags, s.cacheTTL)
	return tags, nil
}

func (s *Service) CreateTag(ctx context.Context, input CreateTagInput) (*Tag, error) {
	content := strings.TrimSpace(input.Content)
	category := strings.TrimSpace(input.Category)
	if content == "" {
		return nil, fmt.Errorf("content is required")
	}
	if category == "" {
		return nil, fmt.Errorf("category is required")
	}

	count, err := s.repo.CountTagsByContent(ctx, category, content, "")
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrTagExists
	}

	tag := Tag{
		ID:       uuid.NewString(),
		Content:  content,
		Category: category,
	}
	if err := s.repo.CreateTag(ctx, &tag); err != nil {
		return nil, err
	}
	s.cache.Invalidate()
	return &tag, nil
}

func (s *Service) UpdateTag(ctx context.Context, input UpdateTagInput) (*Tag, error) {
	content := strings.TrimSpace(input.Content)
	category := strings.TrimSpace(input.Category)
	if content == "" {
		return nil, fmt.Errorf("content is required")
	}
	if category == "" {
		return nil, fmt.Errorf("category is required")
	}

	tag, err := s.repo.GetTagByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	count, err := s.repo.CountTagsByContent(ctx, category, content, tag.ID)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrTagExists
	}

	tag.Content = content
	tag.Category = category
	if err := s.repo.UpdateTag(ctx, tag); err != nil {
		return nil, err
	}
	s.cache.Invalidate()
	return tag, nil
}

func (s *Service) DeleteTag(ctx context.Context, id string) error {
	deleted, err := s.repo.DeleteTag(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrTagNotFound
	}
	s.cache.Invalidate()
	return nil
}

func (s *Service) ListMedals(ctx context.Context) ([]Medal, error) {
	return s.repo.ListMedals(ctx)
}

func (s *Service) CreateMedal(ctx context.Context, input CreateMedalInput) (*Medal, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}

	medal := Medal{
		ID:          uuid.NewString(),
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		IconURL:     strings.TrimSpace(input.IconURL),
	}
	if err := s.repo.CreateMedal(ctx, &medal); err != nil {
		return nil, err
	}
	return &medal, nil
}

func (s *Service) UpdateMedal(ctx context.Context, input UpdateMedalInput) (*Medal, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}

	medal, err := s.repo.GetMedalByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	medal.Name = name
	medal.Description = strings.TrimSpace(input.Description)
	medal.IconURL = strings.TrimSpace(input.IconURL)
	if err := s.repo.UpdateMedal(ctx, medal); err != nil {
		return nil, err
	}
	return medal, nil
}

func (s *Service) DeleteMedal(ctx context.Context, id string) error {
	deleted, err := s.repo.DeleteMedal(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrMedalNotFound
	}
	return nil
}

// GrantMedal links a medal to a user. Granting twice leaves one row.
func (s *Service) GrantMedal(ctx context.Context, userID, medalID string) error {
	if _, err := s.repo.GetMedalByID(ctx, medalID); err != nil {
		return err
	}

	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrUserNotFound
	}

	return s.repo.GrantMedal(ctx, userID, medalID)
}
