package customers

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/otoservis/otoservis-backend/pkg/db/models"
	pkgerrors "github.com/otoservis/otoservis-backend/pkg/errors"
)

type stubCustomersRepo struct {
	customers map[uuid.UUID]*models.Customer
	vehicles  map[uuid.UUID]*models.Vehicle

	createdCustomers []*models.Customer
	createdVehicles  []*models.Vehicle
	updatedVehicles  []*models.Vehicle
}

func newStubCustomersRepo() *stubCustomersRepo {
	return &stubCustomersRepo{
		customers: make(map[uuid.UUID]*models.Customer),
		vehicles:  make(map[uuid.UUID]*models.Vehicle),
	}
}

func (s *stubCustomersRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubCustomersRepo) CreateCustomer(ctx context.Context, customer *models.Customer) (*models.Customer, error) {
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	s.customers[customer.ID] = customer
	s.createdCustomers = append(s.createdCustomers, customer)
	return customer, nil
}

func (s *stubCustomersRepo) UpdateCustomer(ctx context.Context, customer *models.Customer) error {
	s.customers[customer.ID] = customer
	return nil
}

func (s *stubCustomersRepo) FindCustomerByID(ctx context.Context, branchID, customerID uuid.UUID) (*models.Customer, error) {
	customer, ok := s.customers[customerID]
	if !ok || customer.BranchID != branchID {
		return nil, gorm.ErrRecordNotFound
	}
	return customer, nil
}

func (s *stubCustomersRepo) ListCustomers(ctx context.Context, params ListCustomersParams) ([]models.Customer, error) {
	out := make([]models.Customer, 0, len(s.customers))
	for _, customer := range s.customers {
		if customer.BranchID == params.BranchID {
			out = append(out, *customer)
		}
	}
	return out, nil
}

func (s *stubCustomersRepo) DeleteCustomer(ctx context.Context, branchID, customerID uuid.UUID) error {
	customer, ok := s.customers[customerID]
	if !ok || customer.BranchID != branchID {
		return gorm.ErrRecordNotFound
	}
	delete(s.customers, customerID)
	return nil
}

func (s *stubCustomersRepo) CreateVehicle(ctx context.Context, vehicle *models.Vehicle) (*models.Vehicle, error) {
	if vehicle.ID == uuid.Nil {
		vehicle.ID = uuid.New()
	}
	s.vehicles[vehicle.ID] = vehicle
	s.createdVehicles = append(s.createdVehicles, vehicle)
	return vehicle, nil
}

func (s *stubCustomersRepo) UpdateVehicle(ctx context.Context, vehicle *models.Vehicle) error {
	s.vehicles[vehicle.ID] = vehicle
	s.updatedVehicles = append(s.updatedVehicles, vehicle)
	return nil
}

func (s *stubCustomersRepo) FindVehicleByID(ctx context.Context, branchID, vehicleID uuid.UUID) (*models.Vehicle, error) {
	vehicle, ok := s.vehicles[vehicleID]
	if !ok || vehicle.BranchID != branchID {
		return nil, gorm.ErrRecordNotFound
	}
	return vehicle, nil
}

func (s *stubCustomersRepo) FindVehicleByPlate(ctx context.Context, branchID uuid.UUID, plate string) (*models.Vehicle, error) {
	for _, vehicle := range s.vehicles {
		if vehicle.BranchID == branchID && vehicle.Plate == plate {
			return vehicle, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCustomersRepo) SearchVehiclesByPlate(ctx context.Context, branchID uuid.UUID, q string, limit int) ([]models.Vehicle, error) {
	out := make([]models.Vehicle, 0)
	for _, vehicle := range s.vehicles {
		if vehicle.BranchID == branchID && strings.Contains(vehicle.Plate, q) {
			out = append(out, *vehicle)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *stubCustomersRepo) ListVehiclesByCustomer(ctx context.Context, branchID, customerID uuid.UUID) ([]models.Vehicle, error) {
	out := make([]models.Vehicle, 0)
	for _, vehicle := range s.vehicles {
		if vehicle.BranchID == branchID && vehicle.CustomerID == customerID {
			out = append(out, *vehicle)
		}
	}
	return out, nil
}

func newTestService(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestNormalizePlate(t *testing.T) {
	cases := map[string]string{
		"34 abc 123":  "34ABC123",
		" 06 xyz 42 ": "06XYZ42",
		"34ABC123":    "34ABC123",
	}
	for input, want := range cases {
		if got := NormalizePlate(input); got != want {
			t.Errorf("NormalizePlate(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestResolveVehicle_CreatesCustomerAndVehicle(t *testing.T) {
	repo := newStubCustomersRepo()
	svc := newTestService(t, repo)
	branchID := uuid.New()
	phone := "0505 123 45 67"

	vehicle, customer, err := svc.ResolveVehicle(context.Background(), nil, ResolveVehicleInput{
		BranchID: branchID,
		Plate:    "34 abc 123",
		FullName: "Ali Veli",
		Phone:    &phone,
	})
	if err != nil {
		t.Fatalf("ResolveVehicle: %v", err)
	}
	if vehicle.Plate != "34ABC123" {
		t.Errorf("plate = %q, want normalized form", vehicle.Plate)
	}
	if customer.FullName != "Ali Veli" {
		t.Errorf("full name = %q", customer.FullName)
	}
	if vehicle.CustomerID != customer.ID {
		t.Error("vehicle not linked to created customer")
	}
	if len(repo.createdCustomers) != 1 || len(repo.createdVehicles) != 1 {
		t.Errorf("created %d customers, %d vehicles; want 1 and 1",
			len(repo.createdCustomers), len(repo.createdVehicles))
	}
}

func TestResolveVehicle_UnknownPlateRequiresFullName(t *testing.T) {
	repo := newStubCustomersRepo()
	svc := newTestService(t, repo)

	_, _, err := svc.ResolveVehicle(context.Background(), nil, ResolveVehicleInput{
		BranchID: uuid.New(),
		Plate:    "34XYZ99",
	})
	if err == nil {
		t.Fatal("expected error for unknown plate without full name")
	}
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(repo.createdCustomers) != 0 {
		t.Error("no customer should be created")
	}
}

func TestResolveVehicle_BackfillsEmptyBrandModel(t *testing.T) {
	repo := newStubCustomersRepo()
	branchID := uuid.New()
	customerID := uuid.New()
	repo.customers[customerID] = &models.Customer{ID: customerID, BranchID: branchID, FullName: "Ayşe"}
	vehicleID := uuid.New()
	repo.vehicles[vehicleID] = &models.Vehicle{
		ID: vehicleID, CustomerID: customerID, BranchID: branchID, Plate: "06DEF456",
	}
	svc := newTestService(t, repo)

	brand := "Renault"
	model := "Clio"
	vehicle, customer, err := svc.ResolveVehicle(context.Background(), nil, ResolveVehicleInput{
		BranchID: branchID,
		Plate:    "06 def 456",
		Brand:    &brand,
		Model:    &model,
	})
	if err != nil {
		t.Fatalf("ResolveVehicle: %v", err)
	}
	if customer.ID != customerID {
		t.Error("expected existing customer")
	}
	if vehicle.Brand == nil || *vehicle.Brand != "Renault" {
		t.Error("brand not backfilled")
	}
	if vehicle.Model == nil || *vehicle.Model != "Clio" {
		t.Error("model not backfilled")
	}
	if len(repo.createdCustomers) != 0 {
		t.Error("known plate must not create a customer")
	}
}

func TestResolveVehicle_DoesNotOverwriteBrand(t *testing.T) {
	repo := newStubCustomersRepo()
	branchID := uuid.New()
	customerID := uuid.New()
	existing := "Fiat"
	repo.customers[customerID] = &models.Customer{ID: customerID, BranchID: branchID, FullName: "Ayşe"}
	vehicleID := uuid.New()
	repo.vehicles[vehicleID] = &models.Vehicle{
		ID: vehicleID, CustomerID: customerID, BranchID: branchID, Plate: "06DEF456", Brand: &existing,
	}
	svc := newTestService(t, repo)

	brand := "Renault"
	vehicle, _, err := svc.ResolveVehicle(context.Background(), nil, ResolveVehicleInput{
		BranchID: branchID,
		Plate:    "06DEF456",
		Brand:    &brand,
	})
	if err != nil {
		t.Fatalf("ResolveVehicle: %v", err)
	}
	if *vehicle.Brand != "Fiat" {
		t.Errorf("brand overwritten to %q", *vehicle.Brand)
	}
	if len(repo.updatedVehicles) != 0 {
		t.Error("vehicle should not be updated when nothing changed")
	}
}

func TestCreateCustomer_RequiresFullName(t *testing.T) {
	svc := newTestService(t, newStubCustomersRepo())

	_, err := svc.CreateCustomer(context.Background(), uuid.New(), CreateCustomerRequest{FullName: "   "})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSearchPlates_ShortQueryReturnsEmpty(t *testing.T) {
	repo := newStubCustomersRepo()
	branchID := uuid.New()
	vehicleID := uuid.New()
	repo.vehicles[vehicleID] = &models.Vehicle{ID: vehicleID, BranchID: branchID, Plate: "34ABC123"}
	svc := newTestService(t, repo)

	got, err := svc.SearchPlates(context.Background(), branchID, "3")
	if err != nil {
		t.Fatalf("SearchPlates: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty result for single-char query, got %d rows", len(got))
	}
}
