package tirehotel

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/otoservis/otoservis-backend/pkg/db/models"
)

// Repository exposes persistence for tire hotel entries.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, entry *models.TireHotelEntry) (*models.TireHotelEntry, error)
	Update(ctx context.Context, entry *models.TireHotelEntry) error
	FindByID(ctx context.Context, branchID, entryID uuid.UUID) (*models.TireHotelEntry, error)
	List(ctx context.Context, branchID uuid.UUID, activeOnly bool) ([]models.TireHotelEntry, error)
	CountActive(ctx context.Context, branchID uuid.UUID) (int64, error)
	ListDue(ctx context.Context, dueBy time.Time) ([]models.TireHotelEntry, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a tire hotel repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, entry *models.TireHotelEntry) (*models.TireHotelEntry, error) {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *repository) Update(ctx context.Context, entry *models.TireHotelEntry) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

func (r *repository) FindByID(ctx context.Context, branchID, entryID uuid.UUID) (*models.TireHotelEntry, error) {
	var entry models.TireHotelEntry
	err := r.db.WithContext(ctx).
		Where("id = ? AND branch_id = ?", entryID, branchID).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *repository) List(ctx context.Context, branchID uuid.UUID, activeOnly bool) ([]models.TireHotelEntry, error) {
	query := r.db.WithContext(ctx).
		Where("branch_id = ?", branchID)
	if activeOnly {
		query = query.Where("is_active")
	}

	var entries []models.TireHotelEntry
	err := query.
		Order("created_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repository) CountActive(ctx context.Context, branchID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.TireHotelEntry{}).
		Where("branch_id = ? AND is_active", branchID).
		Count(&count).Error
	return count, err
}

// ListDue feeds the reminder job. It intentionally spans all branches.
func (r *repository) ListDue(ctx context.Context, dueBy time.Time) ([]models.TireHotelEntry, error) {
	var entries []models.TireHotelEntry
	err := r.db.WithContext(ctx).
		Where("is_active AND due_date IS NOT NULL AND due_date <= ?", dueBy).
		Order("due_date ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
