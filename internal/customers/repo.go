package customers

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/otoservis/otoservis-backend/pkg/db/models"
	"github.com/otoservis/otoservis-backend/pkg/pagination"
)

// Repository exposes persistence for customers and their vehicles.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateCustomer(ctx context.Context, customer *models.Customer) (*models.Customer, error)
	UpdateCustomer(ctx context.Context, customer *models.Customer) error
	FindCustomerByID(ctx context.Context, branchID, customerID uuid.UUID) (*models.Customer, error)
	ListCustomers(ctx context.Context, params ListCustomersParams) ([]models.Customer, error)
	DeleteCustomer(ctx context.Context, branchID, customerID uuid.UUID) error

	CreateVehicle(ctx context.Context, vehicle *models.Vehicle) (*models.Vehicle, error)
	UpdateVehicle(ctx context.Context, vehicle *models.Vehicle) error
	FindVehicleByID(ctx context.Context, branchID, vehicleID uuid.UUID) (*models.Vehicle, error)
	FindVehicleByPlate(ctx context.Context, branchID uuid.UUID, plate string) (*models.Vehicle, error)
	SearchVehiclesByPlate(ctx context.Context, branchID uuid.UUID, q string, limit int) ([]models.Vehicle, error)
	ListVehiclesByCustomer(ctx context.Context, branchID, customerID uuid.UUID) ([]models.Vehicle, error)
}

// ListCustomersParams filters the branch customer listing.
type ListCustomersParams struct {
	BranchID uuid.UUID
	Search   string
	Limit    int
	Cursor   *pagination.Cursor
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a customers repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateCustomer(ctx context.Context, customer *models.Customer) (*models.Customer, error) {
	if err := r.db.WithContext(ctx).Create(customer).Error; err != nil {
		return nil, err
	}
	return customer, nil
}

func (r *repository) UpdateCustomer(ctx context.Context, customer *models.Customer) error {
	return r.db.WithContext(ctx).Save(customer).Error
}

func (r *repository) FindCustomerByID(ctx context.Context, branchID, customerID uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).
		Preload("Vehicles").
		Where("id = ? AND branch_id = ?", customerID, branchID).
		First(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *repository) ListCustomers(ctx context.Context, params ListCustomersParams) ([]models.Customer, error) {
	query := r.db.WithContext(ctx).
		Where("branch_id = ?", params.BranchID)

	if params.Search != "" {
		like := "%" + params.Search + "%"
		query = query.Where("full_name ILIKE ? OR phone ILIKE ?", like, like)
	}
	if params.Cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			params.Cursor.CreatedAt, params.Cursor.CreatedAt, params.Cursor.ID,
		)
	}

	var customers []models.Customer
	err := query.
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&customers).Error
	if err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *repository) DeleteCustomer(ctx context.Context, branchID, customerID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND branch_id = ?", customerID, branchID).
		Delete(&models.Customer{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) CreateVehicle(ctx context.Context, vehicle *models.Vehicle) (*models.Vehicle, error) {
	if err := r.db.WithContext(ctx).Create(vehicle).Error; err != nil {
		return nil, err
	}
	return vehicle, nil
}

func (r *repository) UpdateVehicle(ctx context.Context, vehicle *models.Vehicle) error {
	return r.db.WithContext(ctx).Save(vehicle).Error
}

func (r *repository) FindVehicleByID(ctx context.Context, branchID, vehicleID uuid.UUID) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	err := r.db.WithContext(ctx).
		Where("id = ? AND branch_id = ?", vehicleID, branchID).
		First(&vehicle).Error
	if err != nil {
		return nil, err
	}
	return &vehicle, nil
}

func (r *repository) FindVehicleByPlate(ctx context.Context, branchID uuid.UUID, plate string) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	err := r.db.WithContext(ctx).
		Where("branch_id = ? AND plate = ?", branchID, plate).
		First(&vehicle).Error
	if err != nil {
		return nil, err
	}
	return &vehicle, nil
}

func (r *repository) SearchVehiclesByPlate(ctx context.Context, branchID uuid.UUID, q string, limit int) ([]models.Vehicle, error) {
	var vehicles []models.Vehicle
	err := r.db.WithContext(ctx).
		Where("branch_id = ? AND plate ILIKE ?", branchID, "%"+q+"%").
		Order("plate ASC").
		Limit(limit).
		Find(&vehicles).Error
	if err != nil {
		return nil, err
	}
	return vehicles, nil
}

func (r *repository) ListVehiclesByCustomer(ctx context.Context, branchID, customerID uuid.UUID) ([]models.Vehicle, error) {
	var vehicles []models.Vehicle
	err := r.db.WithContext(ctx).
		Where("branch_id = ? AND customer_id = ?", branchID, customerID).
		Order("created_at DESC").
		Find(&vehicles).Error
	if err != nil {
		return nil, err
	}
	return vehicles, nil
}
