package customers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/otoservis/otoservis-backend/pkg/db"
	"github.com/otoservis/otoservis-backend/pkg/db/models"
	pkgerrors "github.com/otoservis/otoservis-backend/pkg/errors"
	"github.com/otoservis/otoservis-backend/pkg/pagination"
)

const plateSearchLimit = 10

// Service exposes customer and vehicle operations scoped to a branch.
type Service interface {
	CreateCustomer(ctx context.Context, branchID uuid.UUID, req CreateCustomerRequest) (*CustomerDTO, error)
	UpdateCustomer(ctx context.Context, branchID, customerID uuid.UUID, req UpdateCustomerRequest) (*CustomerDTO, error)
	GetCustomer(ctx context.Context, branchID, customerID uuid.UUID) (*CustomerDTO, error)
	ListCustomers(ctx context.Context, branchID uuid.UUID, search string, params pagination.Params) ([]CustomerDTO, string, error)
	DeleteCustomer(ctx context.Context, branchID, customerID uuid.UUID) error

	CreateVehicle(ctx context.Context, branchID uuid.UUID, req CreateVehicleRequest) (*VehicleDTO, error)
	UpdateVehicle(ctx context.Context, branchID, vehicleID uuid.UUID, req UpdateVehicleRequest) (*VehicleDTO, error)
	SearchPlates(ctx context.Context, branchID uuid.UUID, q string) ([]VehicleDTO, error)

	ResolveVehicle(ctx context.Context, tx *gorm.DB, input ResolveVehicleInput) (*models.Vehicle, *models.Customer, error)
}

// ResolveVehicleInput identifies a vehicle by plate, with enough customer data
// to create both records when the plate is unknown.
type ResolveVehicleInput struct {
	BranchID uuid.UUID
	Plate    string
	FullName string
	Phone    *string
	Email    *string
	Brand    *string
	Model    *string
}

type service struct {
	repo Repository
}

// NewService builds a customers service with the required dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("customers repository required")
	}
	return &service{repo: repo}, nil
}

// NormalizePlate uppercases a plate and strips all whitespace so the same
// physical plate always hits the same row.
func NormalizePlate(plate string) string {
	return strings.ToUpper(strings.Join(strings.Fields(plate), ""))
}

func (s *service) CreateCustomer(ctx context.Context, branchID uuid.UUID, req CreateCustomerRequest) (*CustomerDTO, error) {
	fullName := strings.TrimSpace(req.FullName)
	if fullName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "full name is required")
	}

	customer := &models.Customer{
		BranchID: branchID,
		FullName: fullName,
		Phone:    trimPtr(req.Phone),
		Email:    trimPtr(req.Email),
		Note:     trimPtr(req.Note),
	}
	created, err := s.repo.CreateCustomer(ctx, customer)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create customer")
	}

	dto := toCustomerDTO(created, false)
	return &dto, nil
}

func (s *service) UpdateCustomer(ctx context.Context, branchID, customerID uuid.UUID, req UpdateCustomerRequest) (*CustomerDTO, error) {
	customer, err := s.repo.FindCustomerByID(ctx, branchID, customerID)
	if err != nil {
		return nil, mapNotFound(err, "customer not found")
	}

	if req.FullName != nil {
		fullName := strings.TrimSpace(*req.FullName)
		if fullName == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "full name cannot be empty")
		}
		customer.FullName = fullName
	}
	if req.Phone != nil {
		customer.Phone = trimPtr(req.Phone)
	}
	if req.Email != nil {
		customer.Email = trimPtr(req.Email)
	}
	if req.Note != nil {
		customer.Note = trimPtr(req.Note)
	}

	if err := s.repo.UpdateCustomer(ctx, customer); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update customer")
	}

	dto := toCustomerDTO(customer, false)
	return &dto, nil
}

func (s *service) GetCustomer(ctx context.Context, branchID, customerID uuid.UUID) (*CustomerDTO, error) {
	customer, err := s.repo.FindCustomerByID(ctx, branchID, customerID)
	if err != nil {
		return nil, mapNotFound(err, "customer not found")
	}

	dto := toCustomerDTO(customer, true)
	return &dto, nil
}

func (s *service) ListCustomers(ctx context.Context, branchID uuid.UUID, search string, params pagination.Params) ([]CustomerDTO, string, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	rows, err := s.repo.ListCustomers(ctx, ListCustomersParams{
		BranchID: branchID,
		Search:   strings.TrimSpace(search),
		Limit:    limit,
		Cursor:   cursor,
	})
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list customers")
	}

	nextCursor := ""
	if len(rows) > limit {
		last := rows[limit-1]
		rows = rows[:limit]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	dtos := make([]CustomerDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, toCustomerDTO(&rows[i], false))
	}
	return dtos, nextCursor, nil
}

func (s *service) DeleteCustomer(ctx context.Context, branchID, customerID uuid.UUID) error {
	if err := s.repo.DeleteCustomer(ctx, branchID, customerID); err != nil {
		return mapNotFound(err, "customer not found")
	}
	return nil
}

func (s *service) CreateVehicle(ctx context.Context, branchID uuid.UUID, req CreateVehicleRequest) (*VehicleDTO, error) {
	plate := NormalizePlate(req.Plate)
	if plate == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "plate is required")
	}

	if _, err := s.repo.FindCustomerByID(ctx, branchID, req.CustomerID); err != nil {
		return nil, mapNotFound(err, "customer not found")
	}

	vehicle := &models.Vehicle{
		CustomerID: req.CustomerID,
		BranchID:   branchID,
		Plate:      plate,
		Brand:      trimPtr(req.Brand),
		Model:      trimPtr(req.Model),
		Year:       req.Year,
		Note:       trimPtr(req.Note),
	}
	created, err := s.repo.CreateVehicle(ctx, vehicle)
	if err != nil {
		if db.IsUniqueViolation(err, "idx_vehicles_branch_plate") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "plate already registered in this branch")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create vehicle")
	}

	dto := toVehicleDTO(created)
	return &dto, nil
}

func (s *service) UpdateVehicle(ctx context.Context, branchID, vehicleID uuid.UUID, req UpdateVehicleRequest) (*VehicleDTO, error) {
	vehicle, err := s.repo.FindVehicleByID(ctx, branchID, vehicleID)
	if err != nil {
		return nil, mapNotFound(err, "vehicle not found")
	}

	if req.Brand != nil {
		vehicle.Brand = trimPtr(req.Brand)
	}
	if req.Model != nil {
		vehicle.Model = trimPtr(req.Model)
	}
	if req.Year != nil {
		vehicle.Year = req.Year
	}
	if req.Note != nil {
		vehicle.Note = trimPtr(req.Note)
	}

	if err := s.repo.UpdateVehicle(ctx, vehicle); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update vehicle")
	}

	dto := toVehicleDTO(vehicle)
	return &dto, nil
}

func (s *service) SearchPlates(ctx context.Context, branchID uuid.UUID, q string) ([]VehicleDTO, error) {
	q = NormalizePlate(q)
	if len(q) < 2 {
		return []VehicleDTO{}, nil
	}

	vehicles, err := s.repo.SearchVehiclesByPlate(ctx, branchID, q, plateSearchLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "search plates")
	}

	dtos := make([]VehicleDTO, 0, len(vehicles))
	for i := range vehicles {
		dtos = append(dtos, toVehicleDTO(&vehicles[i]))
	}
	return dtos, nil
}

// ResolveVehicle finds the vehicle for a plate, creating the customer and
// vehicle when the plate is new. Callers pass their own transaction so the
// records commit together with the work that triggered the lookup. Known
// vehicles get brand and model backfilled only when those fields are empty.
func (s *service) ResolveVehicle(ctx context.Context, tx *gorm.DB, input ResolveVehicleInput) (*models.Vehicle, *models.Customer, error) {
	repo := s.repo.WithTx(tx)

	plate := NormalizePlate(input.Plate)
	if plate == "" {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "plate is required")
	}

	vehicle, err := repo.FindVehicleByPlate(ctx, input.BranchID, plate)
	if err == nil {
		changed := false
		if emptyPtr(vehicle.Brand) && !emptyPtr(input.Brand) {
			vehicle.Brand = trimPtr(input.Brand)
			changed = true
		}
		if emptyPtr(vehicle.Model) && !emptyPtr(input.Model) {
			vehicle.Model = trimPtr(input.Model)
			changed = true
		}
		if changed {
			if err := repo.UpdateVehicle(ctx, vehicle); err != nil {
				return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "backfill vehicle")
			}
		}

		customer, err := repo.FindCustomerByID(ctx, input.BranchID, vehicle.CustomerID)
		if err != nil {
			return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load vehicle owner")
		}
		return vehicle, customer, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find vehicle by plate")
	}

	fullName := strings.TrimSpace(input.FullName)
	if fullName == "" {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "full name is required for a new plate")
	}

	customer, err := repo.CreateCustomer(ctx, &models.Customer{
		BranchID: input.BranchID,
		FullName: fullName,
		Phone:    trimPtr(input.Phone),
		Email:    trimPtr(input.Email),
	})
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create customer")
	}

	vehicle, err = repo.CreateVehicle(ctx, &models.Vehicle{
		CustomerID: customer.ID,
		BranchID:   input.BranchID,
		Plate:      plate,
		Brand:      trimPtr(input.Brand),
		Model:      trimPtr(input.Model),
	})
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create vehicle")
	}
	return vehicle, customer, nil
}

func mapNotFound(err error, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, message)
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, message)
}

func trimPtr(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func emptyPtr(value *string) bool {
	return value == nil || strings.TrimSpace(*value) == ""
}
