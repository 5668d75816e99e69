package taxonomy

import (
	"context"
	"errors"
	"time"

	taxonomydomain "community-app-go/internal/domain/taxonomy"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListTags(ctx context.Context) ([]taxonomydomain.Tag, error) {
	var rows []taxonomydomain.Tag
	if err := r.db.WithContext(ctx).Order("category, content").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *PostgresRepository) GetTagByID(ctx context.Context, id string) (*taxonomydomain.Tag, error) {
	var row taxonomydomain.Tag
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, taxonomydomain.ErrTagNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (r *PostgresRepository) CreateTag(ctx context.Context, tag *taxonomydomain.Tag) error {
	return r.db.WithContext(ctx).Create(tag).Error
}

func (r *PostgresRepository) UpdateTag(ctx context.Context, tag *taxonomydomain.Tag) error {
	return r.db.WithContext(ctx).
		Model(&taxonomydomain.Tag{}).
		Where("id = ?", tag.ID).
		Updates(map[string]interface{}{
			"content":    tag.Content,
			"category":   tag.Category,
			"updated_at": time.Now().UTC(),
		}).Error
}

func (r *PostgresRepository) DeleteTag(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&taxonomydomain.Tag{}, "id = ?", id)
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) CountTagsByContent(ctx context.Context, category, content, excludeID string) (int64, error) {
	query := r.db.WithContext(ctx).
		Model(&taxonomydomain.Tag{}).
		Where("category = ? AND content = ?", category, content)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PostgresRepository) ListMedals(ctx context.Context) ([]taxonomydomain.Medal, error) {
	var rows []taxonomydomain.Medal
	if err := r.db.WithContext(ctx).Order("name").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *PostgresRepository) GetMedalByID(ctx context.Context, id string) (*taxonomydomain.Medal, error) {
	var row taxonomydomain.Medal
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, taxonomydomain.ErrMedalNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (r *PostgresRepository) CreateMedal(ctx context.Context, medal *taxonomydomain.Medal) error {
	return r.db.WithContext(ctx).Create(medal).Error
}

func (r *PostgresRepository) UpdateMedal(ctx context.Context, medal *taxonomydomain.Medal) error {
	return r.db.WithContext(ctx).
		Model(&taxonomydomain.Medal{}).
		Where("id = ?", medal.ID).
		Updates(map[string]interface{}{
			"name":        medal.Name,
			"description": medal.Description,
			"icon_url":    medal.IconURL,
			"updated_at":  time.Now().UTC(),
		}).Error
}

func (r *PostgresRepository) DeleteMedal(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&taxonomydomain.Medal{}, "id = ?", id)
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) GrantMedal(ctx context.Context, userID, medalID string) error {
	link := struct {
		UserID    string    `gorm:"column:user_id"`
		MedalID   string    `gorm:"column:medal_id"`
		CreatedAt time.Time `gorm:"column:created_at"`
	}{UserID: userID, MedalID: medalID, CreatedAt: time.Now().UTC()}

	return r.db.WithContext(ctx).
		Table("user_medals").
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&link).Error
}
