package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var ErrUserNotFound = errors.New("user not found")

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Ensure creates the user row on first sight and returns the stored row, so
// callers see the persisted role rather than whatever the identity provider
// reported.
func (s *Service) Ensure(ctx context.Context, id, name, email string) (*User, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("user id is required")
	}

	row := User{ID: id, Name: strings.TrimSpace(name), Role: RoleUser}
	if email != "" {
		row.Email = &email
	}

	if err := s.repo.Upsert(ctx, &row); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, id)
}

func (s *Service) Exists(ctx context.Context, id string) (bool, error) {
	if strings.TrimSpace(id) == "" {
		return false, nil
	}
	return s.repo.Exists(ctx, id)
}
