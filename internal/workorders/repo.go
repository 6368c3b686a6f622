package workorders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/otoservis/otoservis-backend/pkg/db/models"
	"github.com/otoservis/otoservis-backend/pkg/enums"
	"github.com/otoservis/otoservis-backend/pkg/pagination"
)

// Repository exposes persistence for work orders and their part lines.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, order *models.WorkOrder) (*models.WorkOrder, error)
	Update(ctx context.Context, order *models.WorkOrder) error
	FindByID(ctx context.Context, branchID, orderID uuid.UUID) (*models.WorkOrder, error)
	List(ctx context.Context, params ListParams) ([]models.WorkOrder, error)
	Delete(ctx context.Context, branchID, orderID uuid.UUID) error

	CreatePartLine(ctx context.Context, line *models.WorkOrderPart) error
	ListPartLines(ctx context.Context, orderID uuid.UUID) ([]models.WorkOrderPart, error)

	ListAssigned(ctx context.Context, branchID, userID uuid.UUID) ([]models.WorkOrder, error)
	FindRecentDone(ctx context.Context, branchID uuid.UUID, since time.Time, limit int) ([]models.WorkOrder, error)
	CountByStatus(ctx context.Context, branchID uuid.UUID, statuses []enums.WorkOrderStatus) (int64, error)
	CountCreatedSince(ctx context.Context, branchID uuid.UUID, since time.Time) (int64, error)
}

// ListParams filters the branch work order listing.
type ListParams struct {
	BranchID uuid.UUID
	Status   *enums.WorkOrderStatus
	Kind     *enums.WorkOrderKind
	Limit    int
	Cursor   *pagination.Cursor
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a work orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, order *models.WorkOrder) (*models.WorkOrder, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) Update(ctx context.Context, order *models.WorkOrder) error {
	return r.db.WithContext(ctx).Save(order).Error
}

func (r *repository) FindByID(ctx context.Context, branchID, orderID uuid.UUID) (*models.WorkOrder, error) {
	var order models.WorkOrder
	err := r.db.WithContext(ctx).
		Preload("Parts").
		Where("id = ? AND branch_id = ?", orderID, branchID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) List(ctx context.Context, params ListParams) ([]models.WorkOrder, error) {
	query := r.db.WithContext(ctx).
		Where("branch_id = ?", params.BranchID)

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.Kind != nil {
		query = query.Where("kind = ?", *params.Kind)
	}
	if params.Cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			params.Cursor.CreatedAt, params.Cursor.CreatedAt, params.Cursor.ID,
		)
	}

	var orders []models.WorkOrder
	err := query.
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repository) Delete(ctx context.Context, branchID, orderID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND branch_id = ?", orderID, branchID).
		Delete(&models.WorkOrder{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) CreatePartLine(ctx context.Context, line *models.WorkOrderPart) error {
	return r.db.WithContext(ctx).Create(line).Error
}

func (r *repository) ListPartLines(ctx context.Context, orderID uuid.UUID) ([]models.WorkOrderPart, error) {
	var lines []models.WorkOrderPart
	err := r.db.WithContext(ctx).
		Where("work_order_id = ?", orderID).
		Order("created_at ASC").
		Find(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *repository) ListAssigned(ctx context.Context, branchID, userID uuid.UUID) ([]models.WorkOrder, error) {
	var orders []models.WorkOrder
	err := r.db.WithContext(ctx).
		Where("branch_id = ? AND assigned_to_user_id = ? AND status <> ?",
			branchID, userID, enums.WorkOrderStatusDone).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// FindRecentDone returns finished orders newest first, bounded so repeat-visit
// scans stay cheap on large branches.
func (r *repository) FindRecentDone(ctx context.Context, branchID uuid.UUID, since time.Time, limit int) ([]models.WorkOrder, error) {
	var orders []models.WorkOrder
	err := r.db.WithContext(ctx).
		Where("branch_id = ? AND status = ? AND finished_at IS NOT NULL AND finished_at >= ?",
			branchID, enums.WorkOrderStatusDone, since).
		Order("finished_at DESC").
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repository) CountByStatus(ctx context.Context, branchID uuid.UUID, statuses []enums.WorkOrderStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.WorkOrder{}).
		Where("branch_id = ? AND status IN ?", branchID, statuses).
		Count(&count).Error
	return count, err
}

func (r *repository) CountCreatedSince(ctx context.Context, branchID uuid.UUID, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.WorkOrder{}).
		Where("branch_id = ? AND created_at >= ?", branchID, since).
		Count(&count).Error
	return count, err
}
