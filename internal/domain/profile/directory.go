package profile

import (
	"context"
	"errors"
)

// Directory returns one page of the verified-member directory: profile rows
// joined with tags and availability. The joins are done with exactly two
// batched queries across the whole page, never one query per row. Every
// entry goes through the same viewer redaction as the single-profile fetch.
func (s *Service) Directory(ctx context.Context, viewerID string, page, limit int, viewerIsAdmin bool) (*DirectoryPage, error) {
	if err := s.requireVerified(ctx, viewerID); err != nil {
		return nil, err
	}

	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = s.opts.DefaultPageSize
	}
	if limit > s.opts.MaxPageSize {
		limit = s.opts.MaxPageSize
	}

	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, err
	}

	profiles, err := s.repo.ListPage(ctx, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}

	result := &DirectoryPage{
		Items:      []DirectoryEntry{},
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: int((total + int64(limit) - 1) / int64(limit)),
	}
	if len(profiles) == 0 {
		return result, nil
	}

	userIDs := make([]string, 0, len(profiles))
	for _, p := range profiles {
		userIDs = append(userIDs, p.UserID)
	}

	tagsByUser, err := s.batchTags(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	availabilityByUser, err := s.batchAvailability(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	names, err := s.repo.GetDisplayNamesByUserIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	for _, p := range profiles {
		redact(&p, viewerIsAdmin)
		result.Items = append(result.Items, DirectoryEntry{
			Profile:      p,
			DisplayName:  names[p.UserID],
			Tags:         orEmptyTags(tagsByUser[p.UserID]),
			Availability: orEmptySlots(availabilityByUser[p.UserID]),
		})
	}
	return result, nil
}

// GetByUserID returns a single member profile with field-level visibility
// applied for the viewer. Redaction happens on the read path only; stored
// data is never altered.
func (s *Service) GetByUserID(ctx context.Context, viewerID, targetID string, viewerIsAdmin bool) (*Detail, error) {
	if err := s.requireVerified(ctx, viewerID); err != nil {
		return nil, err
	}

	target, err := s.repo.GetByUserID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	detail, err := s.loadDetail(ctx, *target)
	if err != nil {
		return nil, err
	}

	redact(&detail.Profile, viewerIsAdmin)
	return detail, nil
}

func (s *Service) requireVerified(ctx context.Context, viewerID string) error {
	viewer, err := s.repo.GetByUserID(ctx, viewerID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return ErrNotVerified
		}
		return err
	}
	if !viewer.IsVerified {
		return ErrNotVerified
	}
	return nil
}

// redact blanks fields the viewer may not see. The contact field and the
// pending revision are admin-only; city and district follow the target's own
// visibility level (0 = province only, 1 = city visible, 2 = city and
// district visible).
func redact(p *Profile, viewerIsAdmin bool) {
	if !viewerIsAdmin {
		p.Wechat = ""
		p.NewSnapshot = nil
	}
	if p.LocationVisibility < 1 {
		p.City = ""
	}
	if p.LocationVisibility < 2 {
		p.District = ""
	}
}

func (s *Service) batchTags(ctx context.Context, userIDs []string) (map[string][]Tag, error) {
	result := make(map[string][]Tag, len(userIDs))
	for _, chunk := range chunkIDs(userIDs, s.opts.IDBatchSize) {
		part, err := s.repo.GetTagsByUserIDs(ctx, chunk)
		if err != nil {
			return nil, err
		}
		for id, tags := range part {
			result[id] = tags
		}
	}
	return result, nil
}

func (s *Service) batchAvailability(ctx context.Context, userIDs []string) (map[string][]Slot, error) {
	result := make(map[string][]Slot, len(userIDs))
	for _, chunk := range chunkIDs(userIDs, s.opts.IDBatchSize) {
		part, err := s.repo.GetAvailabilityByUserIDs(ctx, chunk)
		if err != nil {
			return nil, err
		}
		for id, slots := range part {
			result[id] = slots
		}
	}
	return result, nil
}

// chunkIDs partitions ids so a single IN clause never exceeds the store-side
// parameter limit.
func chunkIDs(ids []string, size int) [][]string {
	if size <= 0 || len(ids) == 0 {
		return nil
	}

	chunks := make([][]string, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}
