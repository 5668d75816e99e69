package profile

import (
	"context"
	"errors"
	"time"

	profiledomain "community-app-go/internal/domain/profile"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByUserID(ctx context.Context, userID string) (*profiledomain.Profile, error) {
	var row profiledomain.Profile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, profiledomain.ErrProfileNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (r *PostgresRepository) GetByHandle(ctx context.Context, handle string) (*profiledomain.Profile, error) {
	var row profiledomain.Profile
	if err := r.db.WithContext(ctx).Where("handle = ?", handle).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, profiledomain.ErrProfileNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (r *PostgresRepository) Create(ctx context.Context, row *profiledomain.Profile) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *PostgresRepository) StageSnapshot(ctx context.Context, profileID string, snapshot datatypes.JSON) error {
	return r.db.WithContext(ctx).
		Model(&profiledomain.Profile{}).
		Where("id = ?", profileID).
		Updates(map[string]interface{}{
			"new_snapshot": snapshot,
			"updated_at":   time.Now().UTC(),
		}).Error
}

func (r *PostgresRepository) MergeRevision(ctx context.Context, profileID string, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&profiledomain.Profile{}).
		Where("id = ?", profileID).
		Updates(updates).Error
}

func (r *PostgresRepository) ClearSnapshot(ctx context.Context, profileID string) error {
	return r.db.WithContext(ctx).
		Model(&profiledomain.Profile{}).
		Where("id = ?", profileID).
		Update("new_snapshot", nil).Error
}

func (r *PostgresRepository) ListPending(ctx context.Context) ([]profiledomain.Profile, error) {
	var rows []profiledomain.Profile
	if err := r.db.WithContext(ctx).
		Where("new_snapshot IS NOT NULL").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *PostgresRepository) ListPage(ctx context.Context, offset, limit int) ([]profiledomain.Profile, error) {
	var rows []profiledomain.Profile
	if err := r.db.WithContext(ctx).
		Order("created_at, id").
		Offset(offset).
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&profiledomain.Profile{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PostgresRepository) AddTags(ctx context.Context, links []profiledomain.UserTag) error {
	if len(links) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&links).Error
}

func (r *PostgresRepository) RemoveTag(ctx context.Context, userID, tagID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND tag_id = ?", userID, tagID).
		Delete(&profiledomain.UserTag{}).Error
}

func (r *PostgresRepository) CountTagsByIDs(ctx context.Context, tagIDs []string) (int64, error) {
	if len(tagIDs) == 0 {
		return 0, nil
	}
	var count int64
	if err := r.db.WithContext(ctx).
		Table("tags").
		Where("id IN ?", tagIDs).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PostgresRepository) GetTagsByUserIDs(ctx context.Context, userIDs []string) (map[string][]profiledomain.Tag, error) {
	result := make(map[string][]profiledomain.Tag, len(userIDs))
	if len(userIDs) == 0 {
		return result, nil
	}

	var rows []struct {
		UserID   string `gorm:"column:user_id"`
		ID       string `gorm:"column:id"`
		Content  string `gorm:"column:content"`
		Category string `gorm:"column:category"`
	}
	if err := r.db.WithContext(ctx).
		Table("user_tags").
		Select("user_tags.user_id, tags.id, tags.content, tags.category").
		Joins("JOIN tags ON tags.id = user_tags.tag_id").
		Where("user_tags.user_id IN ?", userIDs).
		Order("user_tags.created_at").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		result[row.UserID] = append(result[row.UserID], profiledomain.Tag{
			ID:       row.ID,
			Content:  row.Content,
			Category: row.Category,
		})
	}
	return result, nil
}

func (r *PostgresRepository) AddAvailability(ctx context.Context, slots []profiledomain.UserAvailability) error {
	if len(slots) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&slots).Error
}

func (r *PostgresRepository) RemoveAvailability(ctx context.Context, userID string, weekDay, timeSlot int) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND week_day = ? AND time_slot = ?", userID, weekDay, timeSlot).
		Delete(&profiledomain.UserAvailability{}).Error
}

func (r *PostgresRepository) GetAvailabilityByUserIDs(ctx context.Context, userIDs []string) (map[string][]profiledomain.Slot, error) {
	result := make(map[string][]profiledomain.Slot, len(userIDs))
	if len(userIDs) == 0 {
		return result, nil
	}

	var rows []profiledomain.UserAvailability
	if err := r.db.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Order("week_day, time_slot").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		result[row.UserID] = append(result[row.UserID], profiledomain.Slot{
			WeekDay:  row.WeekDay,
			TimeSlot: row.TimeSlot,
		})
	}
	return result, nil
}

func (r *PostgresRepository) GetMedalsByUserIDs(ctx context.Context, userIDs []string) (map[string][]profiledomain.Medal, error) {
	result := make(map[string][]profiledomain.Medal, len(userIDs))
	if len(userIDs) == 0 {
		return result, nil
	}

	var rows []struct {
		UserID      string `gorm:"column:user_id"`
		ID          string `gorm:"column:id"`
		Name        string `gorm:"column:name"`
		Description string `gorm:"column:description"`
		IconURL     string `gorm:"column:icon_url"`
	}
	if err := r.db.WithContext(ctx).
		Table("user_medals").
		Select("user_medals.user_id, medals.id, medals.name, medals.description, medals.icon_url").
		Joins("JOIN medals ON medals.id = user_medals.medal_id").
		Where("user_medals.user_id IN ?", userIDs).
		Order("user_medals.created_at").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		result[row.UserID] = append(result[row.UserID], profiledomain.Medal{
			ID:          row.ID,
			Name:        row.Name,
			Description: row.Description,
			IconURL:     row.IconURL,
		})
	}
	return result, nil
}

func (r *PostgresRepository) GetDisplayNamesByUserIDs(ctx context.Context, userIDs []string) (map[string]string, error) {
	result := make(map[string]string, len(userIDs))
	if len(userIDs) == 0 {
		return result, nil
	}

	var rows []struct {
		UserID      string `gorm:"column:user_id"`
		DisplayName string `gorm:"column:display_name"`
	}
	if err := r.db.WithContext(ctx).
		Table("profiles").
		Select("user_id, display_name").
		Where("user_id IN ?", userIDs).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		result[row.UserID] = row.DisplayName
	}
	return result, nil
}
