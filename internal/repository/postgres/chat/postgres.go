package chat

import (
	"context"
	"time"

	chatdomain "community-app-go/internal/domain/chat"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListInvolving(ctx context.Context, userID string) ([]chatdomain.Message, error) {
	var rows []chatdomain.Message
	if err := r.db.WithContext(ctx).
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *PostgresRepository) ListBetween(ctx context.Context, userID, counterpartID string) ([]chatdomain.Message, error) {
	var rows []chatdomain.Message
	if err := r.db.WithContext(ctx).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userID, counterpartID, counterpartID, userID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *PostgresRepository) Create(ctx context.Context, message *chatdomain.Message) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *PostgresRepository) Touch(ctx context.Context, messageID string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&chatdomain.Message{}).
		Where("id = ?", messageID).
		Update("updated_at", at).Error
}
