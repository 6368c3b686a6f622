package notifications

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/otoservis/otoservis-backend/pkg/db/models"
	"github.com/otoservis/otoservis-backend/pkg/enums"
	"github.com/otoservis/otoservis-backend/pkg/pagination"
)

// Repository exposes persistence helpers for the notification audit log.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, log *models.NotificationLog) error
	UpdateDelivery(ctx context.Context, id uuid.UUID, update DeliveryUpdate) error
	List(ctx context.Context, params ListLogsParams) ([]models.NotificationLog, *pagination.Cursor, error)
}

// DeliveryUpdate carries the post-send fields written back onto a log row.
type DeliveryUpdate struct {
	Status       enums.NotificationStatus
	ProviderSID  *string
	ErrorMessage *string
	SentAt       *time.Time
}

// ListLogsParams configures pagination for the audit view.
type ListLogsParams struct {
	BranchID    uuid.UUID
	WorkOrderID *uuid.UUID
	Limit       int
	Cursor      *pagination.Cursor
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a notifications repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, log *models.NotificationLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *repositoryImpl) UpdateDelivery(ctx context.Context, id uuid.UUID, update DeliveryUpdate) error {
	fields := map[string]any{
		"status": update.Status,
	}
	if update.ProviderSID != nil {
		fields["provider_sid"] = *update.ProviderSID
	}
	if update.ErrorMessage != nil {
		fields["error_message"] = *update.ErrorMessage
	}
	if update.SentAt != nil {
		fields["sent_at"] = *update.SentAt
	}
	return r.db.WithContext(ctx).
		Model(&models.NotificationLog{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *repositoryImpl) List(ctx context.Context, params ListLogsParams) ([]models.NotificationLog, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)
	query := r.db.WithContext(ctx).
		Model(&models.NotificationLog{}).
		Where("branch_id = ?", params.BranchID)
	if params.WorkOrderID != nil {
		query = query.Where("work_order_id = ?", *params.WorkOrderID)
	}
	if params.Cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var logs []models.NotificationLog
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&logs).Error; err != nil {
		return nil, nil, err
	}

	if len(logs) > normalized {
		next := logs[normalized]
		logs = logs[:normalized]
		return logs, &pagination.Cursor{CreatedAt: next.CreatedAt, ID: next.ID}, nil
	}
	return logs, nil, nil
}
