package workorders

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
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
	"github.com/otoservis/otoservis-backend/pkg/numeric"
	"github.com/otoservis/otoservis-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type vehicleResolver interface {
	ResolveVehicle(ctx context.Context, tx *gorm.DB, input customers.ResolveVehicleInput) (*models.Vehicle, *models.Customer, error)
}

type customerDirectory interface {
	FindCustomerByID(ctx context.Context, branchID, customerID uuid.UUID) (*models.Customer, error)
}

// partCatalog is the slice of the inventory service the attach flow needs.
// All three calls run inside the caller's transaction.
type partCatalog interface {
	FindActivePart(ctx context.Context, tx *gorm.DB, branchID, partID uuid.UUID) (*models.Part, error)
	Stock(ctx context.Context, tx *gorm.DB, branchID, partID uuid.UUID) (decimal.Decimal, error)
	RecordMove(ctx context.Context, tx *gorm.DB, move *models.StockMove) error
}

type notifier interface {
	WorkOrderCreated(ctx context.Context, event notifications.WorkOrderEvent)
	WorkOrderDone(ctx context.Context, event notifications.WorkOrderEvent)
}

// Service drives the work order lifecycle.
type Service interface {
	Create(ctx context.Context, branchID, actorUserID uuid.UUID, req CreateWorkOrderRequest) (*WorkOrderDTO, error)
	Get(ctx context.Context, branchID, orderID uuid.UUID) (*WorkOrderDTO, error)
	List(ctx context.Context, branchID uuid.UUID, status, kind string, params pagination.Params) ([]WorkOrderDTO, string, error)
	AdminEdit(ctx context.Context, branchID, orderID uuid.UUID, req AdminEditRequest) (*WorkOrderDTO, error)
	Done(ctx context.Context, branchID, orderID uuid.UUID, req DoneRequest) (*WorkOrderDTO, error)
	Delete(ctx context.Context, branchID, orderID uuid.UUID) error

	AttachPart(ctx context.Context, branchID, orderID, actorUserID uuid.UUID, req AttachPartRequest) (*WorkOrderDTO, error)

	WorkerAction(ctx context.Context, branchID, orderID, actorUserID uuid.UUID, req WorkerActionRequest) (*WorkerOrderDTO, error)
	ListWorkerOrders(ctx context.Context, branchID, actorUserID uuid.UUID) ([]WorkerOrderDTO, error)

	RepeatVisit(ctx context.Context, branchID, orderID uuid.UUID) (*RepeatVisit, error)
}

type service struct {
	repo      Repository
	tx        txRunner
	vehicles  vehicleResolver
	customers customerDirectory
	parts     partCatalog
	notify    notifier
	cfg       config.WorkOrdersConfig
	now       func() time.Time
}

// NewService builds a work order service with the required dependencies.
func NewService(
	repo Repository,
	tx txRunner,
	vehicles vehicleResolver,
	directory customerDirectory,
	parts partCatalog,
	notify notifier,
	cfg config.WorkOrdersConfig,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("work orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if vehicles == nil {
		return nil, fmt.Errorf("vehicle resolver required")
	}
	if directory == nil {
		return nil, fmt.Errorf("customer directory required")
	}
	if parts == nil {
		return nil, fmt.Errorf("part catalog required")
	}
	if notify == nil {
		return nil, fmt.Errorf("notifier required")
	}
	return &service{
		repo:      repo,
		tx:        tx,
		vehicles:  vehicles,
		customers: directory,
		parts:     parts,
		notify:    notify,
		cfg:       cfg,
		now:       time.Now,
	}, nil
}

func (s *service) Create(ctx context.Context, branchID, actorUserID uuid.UUID, req CreateWorkOrderRequest) (*WorkOrderDTO, error) {
	plate := customers.NormalizePlate(req.Plate)
	if plate == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "plate is required")
	}

	kind := enums.WorkOrderKindCarWash
	if strings.TrimSpace(req.Kind) != "" {
		parsed, err := enums.ParseWorkOrderKind(req.Kind)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid work order kind")
		}
		kind = parsed
	}

	labor := numeric.ParseLenientZero(req.LaborTotal)
	parts := numeric.ParseLenientZero(req.PartsTotal)

	var (
		order    *models.WorkOrder
		customer *models.Customer
	)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		vehicle, owner, err := s.vehicles.ResolveVehicle(ctx, tx, customers.ResolveVehicleInput{
			BranchID: branchID,
			Plate:    plate,
			FullName: req.FullName,
			Phone:    req.Phone,
			Email:    req.Email,
			Brand:    req.VehicleBrand,
			Model:    req.VehicleModel,
		})
		if err != nil {
			return err
		}
		customer = owner

		order = &models.WorkOrder{
			BranchID:         branchID,
			CustomerID:       &owner.ID,
			VehicleID:        &vehicle.ID,
			Kind:             kind,
			Status:           enums.WorkOrderStatusWaiting,
			PlateText:        plate,
			Subject:          trimPtr(req.Subject),
			Complaint:        trimPtr(req.Complaint),
			KM:               parseKM(req.KM),
			LaborTotal:       labor,
			PartsTotal:       parts,
			GrandTotal:       labor.Add(parts),
			PaymentMethod:    upperPtr(req.PaymentMethod),
			AssignedToUserID: req.AssignedTo,
			CreatedByUserID:  &actorUserID,
		}
		order, err = s.repo.WithTx(tx).Create(ctx, order)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create work order")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify.WorkOrderCreated(ctx, s.workOrderEvent(order, customer))

	dto := toWorkOrderDTO(order)
	return &dto, nil
}

func (s *service) Get(ctx context.Context, branchID, orderID uuid.UUID) (*WorkOrderDTO, error) {
	order, err := s.repo.FindByID(ctx, branchID, orderID)
	if err != nil {
		return nil, mapNotFound(err, "work order not found")
	}
	dto := toWorkOrderDTO(order)
	return &dto, nil
}

func (s *service) List(ctx context.Context, branchID uuid.UUID, status, kind string, params pagination.Params) ([]WorkOrderDTO, string, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}

	listParams := ListParams{
		BranchID: branchID,
		Limit:    pagination.NormalizeLimit(params.Limit),
		Cursor:   cursor,
	}
	if strings.TrimSpace(status) != "" {
		parsed, err := enums.ParseWorkOrderStatus(status)
		if err != nil {
			return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter")
		}
		listParams.Status = &parsed
	}
	if strings.TrimSpace(kind) != "" {
		parsed, err := enums.ParseWorkOrderKind(kind)
		if err != nil {
			return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "invalid kind filter")
		}
		listParams.Kind = &parsed
	}

	rows, err := s.repo.List(ctx, listParams)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list work orders")
	}

	nextCursor := ""
	if len(rows) > listParams.Limit {
		last := rows[listParams.Limit-1]
		rows = rows[:listParams.Limit]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	dtos := make([]WorkOrderDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, toWorkOrderDTO(&rows[i]))
	}
	return dtos, nextCursor, nil
}

func (s *service) AdminEdit(ctx context.Context, branchID, orderID uuid.UUID, req AdminEditRequest) (*WorkOrderDTO, error) {
	var order *models.WorkOrder
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		found, err := repo.FindByID(ctx, branchID, orderID)
		if err != nil {
			return mapNotFound(err, "work order not found")
		}
		order = found

		if req.Status != nil {
			parsed, err := enums.ParseWorkOrderStatus(*req.Status)
			if err != nil {
				return pkgerrors.New(pkgerrors.CodeValidation, "invalid status")
			}
			order.Status = parsed
		}
		if req.Subject != nil {
			order.Subject = trimPtr(req.Subject)
		}
		if req.Complaint != nil {
			order.Complaint = trimPtr(req.Complaint)
		}
		if req.KM != nil {
			order.KM = parseKM(req.KM)
		}
		if req.PaymentMethod != nil {
			order.PaymentMethod = upperPtr(req.PaymentMethod)
		}
		if req.LaborTotal != nil {
			order.LaborTotal = numeric.ParseLenient(*req.LaborTotal, order.LaborTotal)
		}
		if req.PartsTotal != nil {
			order.PartsTotal = numeric.ParseLenient(*req.PartsTotal, order.PartsTotal)
		}
		if req.StaffNote != nil {
			order.StaffNote = trimPtr(req.StaffNote)
		}
		if req.IsPaid != nil {
			order.IsPaid = *req.IsPaid
		}
		if req.AssignedTo != nil {
			order.AssignedToUserID = req.AssignedTo
		}

		order.GrandTotal = order.LaborTotal.Add(order.PartsTotal)

		// First transition into DONE stamps the completion time; later edits
		// never move it.
		if order.Status == enums.WorkOrderStatusDone && order.FinishedAt == nil {
			now := s.now()
			order.FinishedAt = &now
		}

		if err := repo.Update(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update work order")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	dto := toWorkOrderDTO(order)
	return &dto, nil
}

func (s *service) Done(ctx context.Context, branchID, orderID uuid.UUID, req DoneRequest) (*WorkOrderDTO, error) {
	var order *models.WorkOrder
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		found, err := repo.FindByID(ctx, branchID, orderID)
		if err != nil {
			return mapNotFound(err, "work order not found")
		}
		order = found

		order.LaborTotal = numeric.ParseLenient(req.LaborTotal, order.LaborTotal)
		order.PartsTotal = numeric.ParseLenient(req.PartsTotal, order.PartsTotal)
		order.GrandTotal = order.LaborTotal.Add(order.PartsTotal)

		order.Status = enums.WorkOrderStatusDone
		if order.FinishedAt == nil {
			now := s.now()
			order.FinishedAt = &now
		}

		if err := repo.Update(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "close work order")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if order.CustomerID != nil {
		if customer, err := s.customers.FindCustomerByID(ctx, branchID, *order.CustomerID); err == nil {
			s.notify.WorkOrderDone(ctx, s.workOrderEvent(order, customer))
		}
	}

	dto := toWorkOrderDTO(order)
	return &dto, nil
}

func (s *service) Delete(ctx context.Context, branchID, orderID uuid.UUID) error {
	if err := s.repo.Delete(ctx, branchID, orderID); err != nil {
		return mapNotFound(err, "work order not found")
	}
	return nil
}

// AttachPart checks stock, writes the part line and the OUT move, and
// recomputes the order totals in one transaction. A failure anywhere leaves
// no partial stock deduction.
func (s *service) AttachPart(ctx context.Context, branchID, orderID, actorUserID uuid.UUID, req AttachPartRequest) (*WorkOrderDTO, error) {
	qty := numeric.ParseLenient(req.Qty, decimal.NewFromInt(1))
	if qty.LessThanOrEqual(decimal.Zero) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be greater than zero")
	}
	unitPrice := numeric.ParseLenientZero(req.UnitPrice)

	var order *models.WorkOrder
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		found, err := repo.FindByID(ctx, branchID, orderID)
		if err != nil {
			return mapNotFound(err, "work order not found")
		}
		order = found

		part, err := s.parts.FindActivePart(ctx, tx, branchID, req.PartID)
		if err != nil {
			return err
		}

		// TODO: lock the part row (SELECT ... FOR UPDATE) so two concurrent
		// attaches cannot both pass the balance check under READ COMMITTED.
		stock, err := s.parts.Stock(ctx, tx, branchID, part.ID)
		if err != nil {
			return err
		}
		if stock.LessThan(qty) {
			return pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient stock").
				WithDetails(map[string]string{
					"available": stock.String(),
					"requested": qty.String(),
				})
		}

		line := &models.WorkOrderPart{
			WorkOrderID: order.ID,
			PartID:      part.ID,
			Qty:         qty,
			UnitPrice:   unitPrice,
			UnitCost:    part.CostPrice,
			LineTotal:   qty.Mul(unitPrice),
		}
		if err := repo.CreatePartLine(ctx, line); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create part line")
		}

		note := fmt.Sprintf("WorkOrder #%s", order.ID)
		if err := s.parts.RecordMove(ctx, tx, &models.StockMove{
			BranchID:        branchID,
			PartID:          part.ID,
			Type:            enums.StockMoveTypeOut,
			Qty:             qty,
			UnitCost:        part.CostPrice,
			WorkOrderID:     &order.ID,
			Note:            &note,
			CreatedByUserID: &actorUserID,
		}); err != nil {
			return err
		}

		lines, err := repo.ListPartLines(ctx, order.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list part lines")
		}
		partsTotal := decimal.Zero
		for _, l := range lines {
			partsTotal = partsTotal.Add(l.LineTotal)
		}
		order.PartsTotal = partsTotal
		order.GrandTotal = order.LaborTotal.Add(partsTotal)
		order.Parts = lines

		if err := repo.Update(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update totals")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	dto := toWorkOrderDTO(order)
	return &dto, nil
}

func (s *service) WorkerAction(ctx context.Context, branchID, orderID, actorUserID uuid.UUID, req WorkerActionRequest) (*WorkerOrderDTO, error) {
	var order *models.WorkOrder
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		found, err := repo.FindByID(ctx, branchID, orderID)
		if err != nil {
			return mapNotFound(err, "work order not found")
		}
		order = found

		if order.Status == enums.WorkOrderStatusDone {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "work order already closed")
		}

		switch req.Action {
		case "start":
			order.Status = enums.WorkOrderStatusInProgress
			if order.StartedAt == nil {
				now := s.now()
				order.StartedAt = &now
			}
			if order.AssignedToUserID == nil {
				order.AssignedToUserID = &actorUserID
			}
		case "save_note":
			if req.Services != nil {
				order.WorkerServices = cleanServices(req.Services)
			}
			if req.Note != nil {
				order.WorkerNote = trimPtr(req.Note)
			}
		case "finish":
			name := strings.TrimSpace(req.FinishedName)
			if name == "" {
				return pkgerrors.New(pkgerrors.CodeValidation, "finisher name is required")
			}
			if req.Services != nil {
				order.WorkerServices = cleanServices(req.Services)
			}
			if req.Note != nil {
				order.WorkerNote = trimPtr(req.Note)
			}
			order.Status = enums.WorkOrderStatusWaitingAdmin
			now := s.now()
			order.WorkerFinishedAt = &now
			order.WorkerFinishedName = &name
		default:
			return pkgerrors.New(pkgerrors.CodeValidation, "unknown action")
		}

		if err := repo.Update(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update work order")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	dto := toWorkerOrderDTO(order)
	return &dto, nil
}

func (s *service) ListWorkerOrders(ctx context.Context, branchID, actorUserID uuid.UUID) ([]WorkerOrderDTO, error) {
	orders, err := s.repo.ListAssigned(ctx, branchID, actorUserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list worker orders")
	}

	dtos := make([]WorkerOrderDTO, 0, len(orders))
	for i := range orders {
		dtos = append(dtos, toWorkerOrderDTO(&orders[i]))
	}
	return dtos, nil
}

// RepeatVisit scans recent finished orders for the same plate. The scan is
// bounded, so on very busy branches an old match can be missed; callers treat
// the answer as a hint, not a guarantee.
func (s *service) RepeatVisit(ctx context.Context, branchID, orderID uuid.UUID) (*RepeatVisit, error) {
	order, err := s.repo.FindByID(ctx, branchID, orderID)
	if err != nil {
		return nil, mapNotFound(err, "work order not found")
	}

	plate := customers.NormalizePlate(order.PlateText)
	if plate == "" {
		return nil, nil
	}

	windowDays := s.cfg.RepeatVisitWindowDays
	if windowDays <= 0 {
		windowDays = 30
	}
	scanLimit := s.cfg.RepeatVisitScanLimit
	if scanLimit <= 0 {
		scanLimit = 200
	}

	since := s.now().AddDate(0, 0, -windowDays)
	recent, err := s.repo.FindRecentDone(ctx, branchID, since, scanLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "scan recent orders")
	}

	for i := range recent {
		candidate := &recent[i]
		if candidate.ID == order.ID || candidate.FinishedAt == nil {
			continue
		}
		if customers.NormalizePlate(candidate.PlateText) != plate {
			continue
		}
		days := int(s.now().Sub(*candidate.FinishedAt).Hours() / 24)
		return &RepeatVisit{
			OrderID:    candidate.ID,
			FinishedAt: *candidate.FinishedAt,
			DaysAgo:    days,
		}, nil
	}
	return nil, nil
}

func (s *service) workOrderEvent(order *models.WorkOrder, customer *models.Customer) notifications.WorkOrderEvent {
	event := notifications.WorkOrderEvent{
		BranchID:    order.BranchID,
		WorkOrderID: order.ID,
		Plate:       order.PlateText,
		Kind:        order.Kind,
		GrandTotal:  order.GrandTotal,
		At:          s.now(),
	}
	if order.CustomerID != nil {
		event.CustomerID = *order.CustomerID
	}
	if customer != nil {
		event.CustomerName = customer.FullName
		if customer.Phone != nil {
			event.CustomerPhone = *customer.Phone
		}
	}
	return event
}

func cleanServices(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, entry := range raw {
		entry = strings.TrimSpace(entry)
		if entry != "" {
			out = append(out, entry)
		}
	}
	return out
}

func parseKM(raw *string) *int {
	if raw == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*raw)
	if trimmed == "" {
		return nil
	}
	km, err := strconv.Atoi(trimmed)
	if err != nil || km < 0 {
		return nil
	}
	return &km
}

func upperPtr(value *string) *string {
	if value == nil {
		return nil
	}
	upper := strings.ToUpper(strings.TrimSpace(*value))
	if upper == "" {
		return nil
	}
	return &upper
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

func mapNotFound(err error, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, message)
	}
	if appErr := pkgerrors.As(err); appErr != nil {
		return err
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, message)
}
