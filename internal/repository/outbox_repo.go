package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/collegedesk/collegedesk-api/internal/models"
)

// OutboxRepository defines data operations for the sync outbox.
type OutboxRepository interface {
	Enqueue(ctx context.Context, record *models.SyncOutbox) error
	ListPending(ctx context.Context, limit int) ([]models.SyncOutbox, error)
	MarkSent(ctx context.Context, id uint) error
	MarkFailed(ctx context.Context, id uint, reason string) error
}

type outboxRepository struct {
	db *gorm.DB
}

// NewOutboxRepository instantiates the repository.
func NewOutboxRepository(db *gorm.DB) OutboxRepository {
	return &outboxRepository{db: db}
}

func (r *outboxRepository) Enqueue(ctx context.Context, record *models.SyncOutbox) error {
	record.Status = models.OutboxPending
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *outboxRepository) ListPending(ctx context.Context, limit int) ([]models.SyncOutbox, error) {
	if limit <= 0 {
		limit = 50
	}

	var records []models.SyncOutbox
	if err := r.db.WithContext(ctx).
		Where("status = ?", models.OutboxPending).
		Order("id ASC").
		Limit(limit).
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *outboxRepository) MarkSent(ctx context.Context, id uint) error {
	now := time.Now().UTC()
	return r.db.WithContext(ctx).
		Model(&models.SyncOutbox{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":   models.OutboxSent,
			"sent_at":  &now,
			"attempts": gorm.Expr("attempts + 1"),
		}).Error
}

func (r *outboxRepository) MarkFailed(ctx context.Context, id uint, reason string) error {
	return r.db.WithContext(ctx).
		Model(&models.SyncOutbox{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     models.OutboxFailed,
			"last_error": reason,
			"attempts":   gorm.Expr("attempts + 1"),
		}).Error
}
