package workorders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/otoservis/otoservis-backend/internal/customers"
	"github.com/otoservis/otoservis-backend/internal/notifications"
	"github.com/otoservis/otoservis-backend/pkg/config"
	"github.com/otoservis/otoservis-backend/pkg/db/models"
	"github.com/otoservis/otoservis-backend/pkg/enums"
	pkgerrors "github.com/otoservis/otoservis-backend/pkg/errors"
)

type stubWorkOrdersRepo struct {
	orders map[uuid.UUID]*models.WorkOrder
	lines  map[uuid.UUID][]models.WorkOrderPart
}

func newStubWorkOrdersRepo() *stubWorkOrdersRepo {
	return &stubWorkOrdersRepo{
		orders: make(map[uuid.UUID]*models.WorkOrder),
		lines:  make(map[uuid.UUID][]models.WorkOrderPart),
	}
}

func (s *stubWorkOrdersRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubWorkOrdersRepo) Create(ctx context.Context, order *models.WorkOrder) (*models.WorkOrder, error) {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	s.orders[order.ID] = order
	return order, nil
}

func (s *stubWorkOrdersRepo) Update(ctx context.Context, order *models.WorkOrder) error {
	s.orders[order.ID] = order
	return nil
}

func (s *stubWorkOrdersRepo) FindByID(ctx context.Context, branchID, orderID uuid.UUID) (*models.WorkOrder, error) {
	order, ok := s.orders[orderID]
	if !ok || order.BranchID != branchID {
		return nil, gorm.ErrRecordNotFound
	}
	return order, nil
}

func (s *stubWorkOrdersRepo) List(ctx context.Context, params ListParams) ([]models.WorkOrder, error) {
	out := make([]models.WorkOrder, 0)
	for _, order := range s.orders {
		if order.BranchID == params.BranchID {
			out = append(out, *order)
		}
	}
	return out, nil
}

func (s *stubWorkOrdersRepo) Delete(ctx context.Context, branchID, orderID uuid.UUID) error {
	order, ok := s.orders[orderID]
	if !ok || order.BranchID != branchID {
		return gorm.ErrRecordNotFound
	}
	delete(s.orders, orderID)
	return nil
}

func (s *stubWorkOrdersRepo) CreatePartLine(ctx context.Context, line *models.WorkOrderPart) error {
	if line.ID == uuid.Nil {
		line.ID = uuid.New()
	}
	s.lines[line.WorkOrderID] = append(s.lines[line.WorkOrderID], *line)
	return nil
}

func (s *stubWorkOrdersRepo) ListPartLines(ctx context.Context, orderID uuid.UUID) ([]models.WorkOrderPart, error) {
	return s.lines[orderID], nil
}

func (s *stubWorkOrdersRepo) ListAssigned(ctx context.Context, branchID, userID uuid.UUID) ([]models.WorkOrder, error) {
	out := make([]models.WorkOrder, 0)
	for _, order := range s.orders {
		if order.BranchID == branchID && order.AssignedToUserID != nil &&
			*order.AssignedToUserID == userID && order.Status != enums.WorkOrderStatusDone {
			out = append(out, *order)
		}
	}
	return out, nil
}

func (s *stubWorkOrdersRepo) FindRecentDone(ctx context.Context, branchID uuid.UUID, since time.Time, limit int) ([]models.WorkOrder, error) {
	out := make([]models.WorkOrder, 0)
	for _, order := range s.orders {
		if order.BranchID == branchID && order.Status == enums.WorkOrderStatusDone &&
			order.FinishedAt != nil && !order.FinishedAt.Before(since) {
			out = append(out, *order)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *stubWorkOrdersRepo) CountByStatus(ctx context.Context, branchID uuid.UUID, statuses []enums.WorkOrderStatus) (int64, error) {
	return 0, nil
}

func (s *stubWorkOrdersRepo) CountCreatedSince(ctx context.Context, branchID uuid.UUID, since time.Time) (int64, error) {
	return 0, nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubResolver struct {
	vehicle  *models.Vehicle
	customer *models.Customer
	err      error
}

func (s *stubResolver) ResolveVehicle(ctx context.Context, tx *gorm.DB, input customers.ResolveVehicleInput) (*models.Vehicle, *models.Customer, error) {
	if s.err != nil {
		return nil, nil, s.err
	}
	return s.vehicle, s.customer, nil
}

type stubDirectory struct {
	customer *models.Customer
}

func (s *stubDirectory) FindCustomerByID(ctx context.Context, branchID, customerID uuid.UUID) (*models.Customer, error) {
	if s.customer == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.customer, nil
}

type stubCatalog struct {
	part  *models.Part
	stock decimal.Decimal
	moves []*models.StockMove
}

func (s *stubCatalog) FindActivePart(ctx context.Context, tx *gorm.DB, branchID, partID uuid.UUID) (*models.Part, error) {
	if s.part == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "part not found")
	}
	return s.part, nil
}

func (s *stubCatalog) Stock(ctx context.Context, tx *gorm.DB, branchID, partID uuid.UUID) (decimal.Decimal, error) {
	return s.stock, nil
}

func (s *stubCatalog) RecordMove(ctx context.Context, tx *gorm.DB, move *models.StockMove) error {
	s.moves = append(s.moves, move)
	return nil
}

type stubNotifier struct {
	created []notifications.WorkOrderEvent
	done    []notifications.WorkOrderEvent
}

func (s *stubNotifier) WorkOrderCreated(ctx context.Context, event notifications.WorkOrderEvent) {
	s.created = append(s.created, event)
}

func (s *stubNotifier) WorkOrderDone(ctx context.Context, event notifications.WorkOrderEvent) {
	s.done = append(s.done, event)
}

type fixture struct {
	repo     *stubWorkOrdersRepo
	resolver *stubResolver
	dir      *stubDirectory
	catalog  *stubCatalog
	notifier *stubNotifier
	svc      Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		repo:     newStubWorkOrdersRepo(),
		resolver: &stubResolver{},
		dir:      &stubDirectory{},
		catalog:  &stubCatalog{},
		notifier: &stubNotifier{},
	}
	svc, err := NewService(f.repo, stubTxRunner{}, f.resolver, f.dir, f.catalog, f.notifier,
		config.WorkOrdersConfig{RepeatVisitWindowDays: 30, RepeatVisitScanLimit: 200})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	f.svc = svc
	return f
}

func seedVehicle(f *fixture, branchID uuid.UUID) (*models.Vehicle, *models.Customer) {
	phone := "+905051234567"
	customer := &models.Customer{ID: uuid.New(), BranchID: branchID, FullName: "Ali Veli", Phone: &phone}
	vehicle := &models.Vehicle{ID: uuid.New(), BranchID: branchID, CustomerID: customer.ID, Plate: "34ABC123"}
	f.resolver.vehicle = vehicle
	f.resolver.customer = customer
	f.dir.customer = customer
	return vehicle, customer
}

func TestCreate_ComputesGrandTotalAndNotifies(t *testing.T) {
	f := newFixture(t)
	branchID := uuid.New()
	seedVehicle(f, branchID)

	dto, err := f.svc.Create(context.Background(), branchID, uuid.New(), CreateWorkOrderRequest{
		Plate:      "34 abc 123",
		Kind:       "VEHICLE_REPAIR",
		LaborTotal: "500,00",
		PartsTotal: "150",
		FullName:   "Ali Veli",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if dto.Status != enums.WorkOrderStatusWaiting {
		t.Errorf("status = %s, want WAITING", dto.Status)
	}
	if !dto.GrandTotal.Equal(decimal.RequireFromString("650")) {
		t.Errorf("grand total = %s, want 650", dto.GrandTotal)
	}
	if dto.Plate != "34ABC123" {
		t.Errorf("plate = %q", dto.Plate)
	}
	if len(f.notifier.created) != 1 {
		t.Fatalf("created notifications = %d, want 1", len(f.notifier.created))
	}
	if f.notifier.created[0].CustomerPhone != "+905051234567" {
		t.Errorf("notification phone = %q", f.notifier.created[0].CustomerPhone)
	}
}

func TestCreate_RequiresPlate(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), uuid.New(), uuid.New(), CreateWorkOrderRequest{Plate: "   "})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(f.notifier.created) != 0 {
		t.Error("no notification should fire")
	}
}

func TestAttachPart_InsufficientStock(t *testing.T) {
	f := newFixture(t)
	branchID := uuid.New()
	order := &models.WorkOrder{
		ID: uuid.New(), BranchID: branchID,
		Status:     enums.WorkOrderStatusInProgress,
		LaborTotal: decimal.RequireFromString("100"),
	}
	f.repo.orders[order.ID] = order
	partID := uuid.New()
	f.catalog.part = &models.Part{ID: partID, BranchID: branchID, Name: "Balata", IsActive: true,
		CostPrice: decimal.RequireFromString("80")}
	f.catalog.stock = decimal.RequireFromString("2")

	_, err := f.svc.AttachPart(context.Background(), branchID, order.ID, uuid.New(), AttachPartRequest{
		PartID: partID,
		Qty:    "3",
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeInsufficientStock {
		t.Fatalf("expected insufficient stock error, got %v", err)
	}
	details, ok := appErr.Details().(map[string]string)
	if !ok || details["available"] != "2" || details["requested"] != "3" {
		t.Errorf("details = %v", appErr.Details())
	}
	if len(f.catalog.moves) != 0 {
		t.Error("no stock move should be recorded")
	}
	if len(f.repo.lines[order.ID]) != 0 {
		t.Error("no part line should be created")
	}
}

func TestAttachPart_ConsumesStockAndRecomputesTotals(t *testing.T) {
	f := newFixture(t)
	branchID := uuid.New()
	order := &models.WorkOrder{
		ID: uuid.New(), BranchID: branchID,
		Status:     enums.WorkOrderStatusInProgress,
		LaborTotal: decimal.RequireFromString("100"),
	}
	f.repo.orders[order.ID] = order
	partID := uuid.New()
	f.catalog.part = &models.Part{ID: partID, BranchID: branchID, Name: "Balata", IsActive: true,
		CostPrice: decimal.RequireFromString("80")}
	f.catalog.stock = decimal.RequireFromString("10")

	dto, err := f.svc.AttachPart(context.Background(), branchID, order.ID, uuid.New(), AttachPartRequest{
		PartID:    partID,
		Qty:       "2",
		UnitPrice: "150,50",
	})
	if err != nil {
		t.Fatalf("AttachPart: %v", err)
	}
	if !dto.PartsTotal.Equal(decimal.RequireFromString("301")) {
		t.Errorf("parts total = %s, want 301", dto.PartsTotal)
	}
	if !dto.GrandTotal.Equal(decimal.RequireFromString("401")) {
		t.Errorf("grand total = %s, want 401", dto.GrandTotal)
	}
	if len(f.catalog.moves) != 1 {
		t.Fatalf("moves = %d, want 1", len(f.catalog.moves))
	}
	move := f.catalog.moves[0]
	if move.Type != enums.StockMoveTypeOut {
		t.Errorf("move type = %s", move.Type)
	}
	if !move.UnitCost.Equal(decimal.RequireFromString("80")) {
		t.Errorf("move unit cost = %s, want part cost price", move.UnitCost)
	}
	if move.WorkOrderID == nil || *move.WorkOrderID != order.ID {
		t.Error("move not linked to order")
	}
}

func TestDone_StampsFinishedAtOnce(t *testing.T) {
	f := newFixture(t)
	branchID := uuid.New()
	_, customer := seedVehicle(f, branchID)
	order := &models.WorkOrder{
		ID: uuid.New(), BranchID: branchID, CustomerID: &customer.ID,
		Status: enums.WorkOrderStatusWaitingAdmin,
	}
	f.repo.orders[order.ID] = order

	dto, err := f.svc.Done(context.Background(), branchID, order.ID, DoneRequest{
		LaborTotal: "400",
		PartsTotal: "100",
	})
	if err != nil {
		t.Fatalf("Done: %v", err)
	}
	if dto.Status != enums.WorkOrderStatusDone {
		t.Errorf("status = %s", dto.Status)
	}
	if dto.FinishedAt == nil {
		t.Fatal("finished_at not set")
	}
	first := *dto.FinishedAt
	if !dto.GrandTotal.Equal(decimal.RequireFromString("500")) {
		t.Errorf("grand total = %s", dto.GrandTotal)
	}
	if len(f.notifier.done) != 1 {
		t.Fatalf("done notifications = %d, want 1", len(f.notifier.done))
	}

	dto, err = f.svc.Done(context.Background(), branchID, order.ID, DoneRequest{})
	if err != nil {
		t.Fatalf("second Done: %v", err)
	}
	if !dto.FinishedAt.Equal(first) {
		t.Error("finished_at moved on repeat close")
	}
}

func TestDone_SurvivesDetachedCustomer(t *testing.T) {
	f := newFixture(t)
	branchID := uuid.New()
	order := &models.WorkOrder{
		ID: uuid.New(), BranchID: branchID,
		Status:    enums.WorkOrderStatusWaitingAdmin,
		PlateText: "34ABC123",
	}
	f.repo.orders[order.ID] = order

	dto, err := f.svc.Done(context.Background(), branchID, order.ID, DoneRequest{
		LaborTotal: "300",
	})
	if err != nil {
		t.Fatalf("Done: %v", err)
	}
	if dto.Status != enums.WorkOrderStatusDone {
		t.Errorf("status = %s", dto.Status)
	}
	if dto.CustomerID != nil {
		t.Error("customer link should stay empty")
	}
	if dto.FinishedAt == nil {
		t.Error("finished_at not set")
	}
	if !dto.GrandTotal.Equal(decimal.RequireFromString("300")) {
		t.Errorf("grand total = %s", dto.GrandTotal)
	}
	if len(f.notifier.done) != 0 {
		t.Error("no notification without a customer to message")
	}
}

func TestAdminEdit_PartialUpdateKeepsGrandTotalInvariant(t *testing.T) {
	f := newFixture(t)
	branchID := uuid.New()
	order := &models.WorkOrder{
		ID: uuid.New(), BranchID: branchID,
		Status:     enums.WorkOrderStatusInProgress,
		LaborTotal: decimal.RequireFromString("200"),
		PartsTotal: decimal.RequireFromString("150"),
		GrandTotal: decimal.RequireFromString("350"),
	}
	f.repo.orders[order.ID] = order

	labor := "450,50"
	dto, err := f.svc.AdminEdit(context.Background(), branchID, order.ID, AdminEditRequest{
		LaborTotal: &labor,
	})
	if err != nil {
		t.Fatalf("AdminEdit: %v", err)
	}
	if !dto.LaborTotal.Equal(decimal.RequireFromString("450.5")) {
		t.Errorf("labor total = %s", dto.LaborTotal)
	}
	if !dto.PartsTotal.Equal(decimal.RequireFromString("150")) {
		t.Errorf("parts total = %s, untouched field changed", dto.PartsTotal)
	}
	if !dto.GrandTotal.Equal(dto.LaborTotal.Add(dto.PartsTotal)) {
		t.Errorf("grand total = %s, want labor + parts", dto.GrandTotal)
	}

	parts := "99"
	dto, err = f.svc.AdminEdit(context.Background(), branchID, order.ID, AdminEditRequest{
		PartsTotal: &parts,
	})
	if err != nil {
		t.Fatalf("AdminEdit: %v", err)
	}
	if !dto.GrandTotal.Equal(decimal.RequireFromString("549.5")) {
		t.Errorf("grand total = %s, want 549.5", dto.GrandTotal)
	}
}

func TestAdminEdit_ForceDoneStampsFinishedAtOnce(t *testing.T) {
	f := newFixture(t)
	branchID := uuid.New()
	order := &models.WorkOrder{
		ID: uuid.New(), BranchID: branchID,
		Status: enums.WorkOrderStatusWaiting,
	}
	f.repo.orders[order.ID] = order

	done := "DONE"
	dto, err := f.svc.AdminEdit(context.Background(), branchID, order.ID, AdminEditRequest{
		Status: &done,
	})
	if err != nil {
		t.Fatalf("AdminEdit: %v", err)
	}
	if dto.Status != enums.WorkOrderStatusDone {
		t.Errorf("status = %s, want DONE", dto.Status)
	}
	if dto.FinishedAt == nil {
		t.Fatal("forcing DONE must stamp finished_at")
	}
	first := *dto.FinishedAt

	note := "kaporadan düşüldü"
	dto, err = f.svc.AdminEdit(context.Background(), branchID, order.ID, AdminEditRequest{
		StaffNote: &note,
	})
	if err != nil {
		t.Fatalf("second AdminEdit: %v", err)
	}
	if dto.FinishedAt == nil || !dto.FinishedAt.Equal(first) {
		t.Error("later edits must not move finished_at")
	}
}

func TestWorkerAction_StartAndFinish(t *testing.T) {
	f := newFixture(t)
	branchID := uuid.New()
	order := &models.WorkOrder{ID: uuid.New(), BranchID: branchID, Status: enums.WorkOrderStatusWaiting}
	f.repo.orders[order.ID] = order
	workerID := uuid.New()

	dto, err := f.svc.WorkerAction(context.Background(), branchID, order.ID, workerID, WorkerActionRequest{Action: "start"})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if dto.Status != enums.WorkOrderStatusInProgress {
		t.Errorf("status = %s", dto.Status)
	}
	if dto.StartedAt == nil {
		t.Error("started_at not set")
	}
	if order.AssignedToUserID == nil || *order.AssignedToUserID != workerID {
		t.Error("starting worker should claim the order")
	}

	_, err = f.svc.WorkerAction(context.Background(), branchID, order.ID, workerID, WorkerActionRequest{Action: "finish"})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("finish without name should fail validation, got %v", err)
	}

	dto, err = f.svc.WorkerAction(context.Background(), branchID, order.ID, workerID, WorkerActionRequest{
		Action:       "finish",
		FinishedName: "Mehmet",
		Services:     []string{"İç Yıkama", " Motor Yıkama ", ""},
	})
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if dto.Status != enums.WorkOrderStatusWaitingAdmin {
		t.Errorf("status = %s, want WAITING_ADMIN", dto.Status)
	}
	if order.WorkerFinishedName == nil || *order.WorkerFinishedName != "Mehmet" {
		t.Error("finisher name not stored")
	}
	if len(order.WorkerServices) != 2 {
		t.Errorf("services = %v", order.WorkerServices)
	}
}

func TestWorkerAction_ClosedOrderRejected(t *testing.T) {
	f := newFixture(t)
	branchID := uuid.New()
	order := &models.WorkOrder{ID: uuid.New(), BranchID: branchID, Status: enums.WorkOrderStatusDone}
	f.repo.orders[order.ID] = order

	_, err := f.svc.WorkerAction(context.Background(), branchID, order.ID, uuid.New(), WorkerActionRequest{Action: "start"})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestRepeatVisit_FindsRecentMatch(t *testing.T) {
	f := newFixture(t)
	branchID := uuid.New()
	finished := time.Now().AddDate(0, 0, -10)
	previous := &models.WorkOrder{
		ID: uuid.New(), BranchID: branchID, Status: enums.WorkOrderStatusDone,
		PlateText: "34ABC123", FinishedAt: &finished,
	}
	current := &models.WorkOrder{
		ID: uuid.New(), BranchID: branchID, Status: enums.WorkOrderStatusWaiting,
		PlateText: "34ABC123",
	}
	f.repo.orders[previous.ID] = previous
	f.repo.orders[current.ID] = current

	visit, err := f.svc.RepeatVisit(context.Background(), branchID, current.ID)
	if err != nil {
		t.Fatalf("RepeatVisit: %v", err)
	}
	if visit == nil {
		t.Fatal("expected a repeat visit match")
	}
	if visit.OrderID != previous.ID {
		t.Error("wrong order matched")
	}
	if visit.DaysAgo != 10 {
		t.Errorf("days ago = %d, want 10", visit.DaysAgo)
	}
}

func TestRepeatVisit_NoMatchOutsideWindow(t *testing.T) {
	f := newFixture(t)
	branchID := uuid.New()
	finished := time.Now().AddDate(0, 0, -45)
	previous := &models.WorkOrder{
		ID: uuid.New(), BranchID: branchID, Status: enums.WorkOrderStatusDone,
		PlateText: "34ABC123", FinishedAt: &finished,
	}
	current := &models.WorkOrder{
		ID: uuid.New(), BranchID: branchID, Status: enums.WorkOrderStatusWaiting,
		PlateText: "34ABC123",
	}
	f.repo.orders[previous.ID] = previous
	f.repo.orders[current.ID] = current

	visit, err := f.svc.RepeatVisit(context.Background(), branchID, current.ID)
	if err != nil {
		t.Fatalf("RepeatVisit: %v", err)
	}
	if visit != nil {
		t.Error("match outside the window should be ignored")
	}
}
