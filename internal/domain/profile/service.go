package profile

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	minHandleLength       = 10
	generatedHandleLength = 12
)

var handlePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Moderator is the external content classifier. Implementations are
// fail-closed: any fault reads as a rejection.
type Moderator interface {
	Moderate(ctx context.Context, content string) bool
}

// DirectoryOptions bound the directory paginator.
type DirectoryOptions struct {
	DefaultPageSize int
	MaxPageSize     int
	IDBatchSize     int
}

func (o DirectoryOptions) withDefaults() DirectoryOptions {
	if o.DefaultPageSize <= 0 {
		o.DefaultPageSize = 50
	}
	if o.MaxPageSize <= 0 {
		o.MaxPageSize = 500
	}
	if o.IDBatchSize <= 0 {
		o.IDBatchSize = 500
	}
	return o
}

type Service struct {
	repo      Repository
	moderator Moderator
	opts      DirectoryOptions
}

func NewService(repo Repository, moderator Moderator, opts DirectoryOptions) *Service {
	return &Service{
		repo:      repo,
		moderator: moderator,
		opts:      opts.withDefaults(),
	}
}

// GetSelf returns the caller's profile with its associations, creating an
// empty profile with a random handle on first access.
func (s *Service) GetSelf(ctx context.Context, userID string) (*Detail, bool, error) {
	existing, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, ErrProfileNotFound) {
			return nil, false, err
		}

		handle, err := generateHandle()
		if err != nil {
			return nil, false, err
		}
		fresh := Profile{
			ID:     uuid.NewString(),
			UserID: userID,
			Handle: handle,
		}
		if err := s.repo.Create(ctx, &fresh); err != nil {
			return nil, false, err
		}
		return &Detail{
			Profile:      fresh,
			Tags:         []Tag{},
			Availability: []Slot{},
			Medals:       []Medal{},
		}, true, nil
	}

	detail, err := s.loadDetail(ctx, *existing)
	if err != nil {
		return nil, false, err
	}
	return detail, false, nil
}

// Propose validates and stages a full candidate copy of the editable fields.
// Live columns are never touched; the candidate waits in new_snapshot for
// admin adjudication. Nothing is persisted when validation or moderation
// fails.
func (s *Service) Propose(ctx context.Context, userID string, candidate Snapshot) error {
	candidate.Handle = strings.TrimSpace(candidate.Handle)
	if candidate.Handle == "" {
		return ErrHandleRequired
	}
	if len(candidate.Handle) < minHandleLength {
		return ErrHandleTooShort
	}
	if !handlePattern.MatchString(candidate.Handle) {
		return ErrHandleInvalid
	}

	current, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}

	owner, err := s.repo.GetByHandle(ctx, candidate.Handle)
	if err != nil && !errors.Is(err, ErrProfileNotFound) {
		return err
	}
	// Re-submitting one's own current handle is not a conflict.
	if owner != nil && owner.UserID != userID {
		return ErrHandleTaken
	}

	if !s.moderator.Moderate(ctx, candidate.ModerationText()) {
		return ErrModerationRejected
	}

	raw, err := json.Marshal(candidate)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	return s.repo.StageSnapshot(ctx, current.ID, datatypes.JSON(raw))
}

// Decide adjudicates the pending revision for the profile owned by userID.
// Approval copies every editable field from the snapshot onto the live row,
// marks the profile verified and clears the snapshot, all in one update.
// Rejection only clears the snapshot.
func (s *Service) Decide(ctx context.Context, userID string, approve bool) error {
	current, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if !current.HasPendingRevision() {
		return ErrNoPendingRevision
	}

	if !approve {
		return s.repo.ClearSnapshot(ctx, current.ID)
	}

	var staged Snapshot
	if err := json.Unmarshal(current.NewSnapshot, &staged); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}

	skills, err := json.Marshal(nonNilStrings(staged.CoreSkills))
	if err != nil {
		return fmt.Errorf("marshal core skills: %w", err)
	}

	return s.repo.MergeRevision(ctx, current.ID, map[string]interface{}{
		"handle":              staged.Handle,
		"display_name":        staged.DisplayName,
		"gender":              staged.Gender,
		"avatar_url":          staged.AvatarURL,
		"banner_url":          staged.BannerURL,
		"status_message":      staged.StatusMessage,
		"bio":                 staged.Bio,
		"expertise_summary":   staged.ExpertiseSummary,
		"background":          staged.Background,
		"motivation":          staged.Motivation,
		"expectations":        staged.Expectations,
		"can_offer":           staged.CanOffer,
		"achievements":        staged.Achievements,
		"core_skills":         datatypes.JSON(skills),
		"other_social_issues": staged.OtherSocialIssues,
		"hobbies":             staged.Hobbies,
		"inspirations":        staged.Inspirations,
		"wechat":              staged.Wechat,
		"province":            staged.Province,
		"city":                staged.City,
		"district":            staged.District,
		"location_visibility": staged.LocationVisibility,
		"is_verified":         true,
		"new_snapshot":        nil,
		"updated_at":          time.Now().UTC(),
	})
}

// ListPending returns the admin review queue: every profile with a staged
// revision, in natural row order.
func (s *Service) ListPending(ctx context.Context) ([]Profile, error) {
	return s.repo.ListPending(ctx)
}

// AddTags links the user to the given tags. Duplicate links are no-ops.
func (s *Service) AddTags(ctx context.Context, userID string, tagIDs []string) error {
	tagIDs = dedupeNonEmpty(tagIDs)
	if len(tagIDs) == 0 {
		return nil
	}

	count, err := s.repo.CountTagsByIDs(ctx, tagIDs)
	if err != nil {
		return err
	}
	if count != int64(len(tagIDs)) {
		return ErrTagNotFound
	}

	links := make([]UserTag, 0, len(tagIDs))
	for _, tagID := range tagIDs {
		links = append(links, UserTag{UserID: userID, TagID: tagID})
	}
	return s.repo.AddTags(ctx, links)
}

func (s *Service) RemoveTag(ctx context.Context, userID, tagID string) error {
	tagID = strings.TrimSpace(tagID)
	if tagID == "" {
		return ErrTagNotFound
	}
	return s.repo.RemoveTag(ctx, userID, tagID)
}

// AddAvailability records recurring weekly slots. Duplicate slots are no-ops.
func (s *Service) AddAvailability(ctx context.Context, userID string, slots []Slot) error {
	if len(slots) == 0 {
		return nil
	}

	seen := make(map[Slot]struct{}, len(slots))
	rows := make([]UserAvailability, 0, len(slots))
	for _, slot := range slots {
		if slot.WeekDay < 0 || slot.WeekDay > 6 || slot.TimeSlot < 0 || slot.TimeSlot > 47 {
			return ErrInvalidSlot
		}
		if _, ok := seen[slot]; ok {
			continue
		}
		seen[slot] = struct{}{}
		rows = append(rows, UserAvailability{UserID: userID, WeekDay: slot.WeekDay, TimeSlot: slot.TimeSlot})
	}
	return s.repo.AddAvailability(ctx, rows)
}

func (s *Service) RemoveAvailability(ctx context.Context, userID string, weekDay, timeSlot int) error {
	if weekDay < 0 || weekDay > 6 || timeSlot < 0 || timeSlot > 47 {
		return ErrInvalidSlot
	}
	return s.repo.RemoveAvailability(ctx, userID, weekDay, timeSlot)
}

// DisplayNames resolves profile display names for a set of user ids. Users
// without a profile are absent from the result.
func (s *Service) DisplayNames(ctx context.Context, userIDs []string) (map[string]string, error) {
	userIDs = dedupeNonEmpty(userIDs)
	if len(userIDs) == 0 {
		return map[string]string{}, nil
	}
	return s.repo.GetDisplayNamesByUserIDs(ctx, userIDs)
}

func (s *Service) loadDetail(ctx context.Context, p Profile) (*Detail, error) {
	ids := []string{p.UserID}

	tags, err := s.repo.GetTagsByUserIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	availability, err := s.repo.GetAvailabilityByUserIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	medals, err := s.repo.GetMedalsByUserIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	return &Detail{
		Profile:      p,
		Tags:         orEmptyTags(tags[p.UserID]),
		Availability: orEmptySlots(availability[p.UserID]),
		Medals:       orEmptyMedals(medals[p.UserID]),
	}, nil
}

func generateHandle() (string, error) {
	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789_-"

	buf := make([]byte, generatedHandleLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate handle: %w", err)
	}
	for i, b := range buf {
		buf[i] = alphabet[int(b)&63]
	}
	return string(buf), nil
}

func dedupeNonEmpty(values []string) []string {
	if len(values) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		result = append(result, value)
	}
	return result
}

func nonNilStrings(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func orEmptyTags(tags []Tag) []Tag {
	if tags == nil {
		return []Tag{}
	}
	return tags
}

func orEmptySlots(slots []Slot) []Slot {
	if slots == nil {
		return []Slot{}
	}
	return slots
}

func orEmptyMedals(medals []Medal) []Medal {
	if medals == nil {
		return []Medal{}
	}
	return medals
}
