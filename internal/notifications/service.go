package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/otoservis/otoservis-backend/pkg/db/models"
	"github.com/otoservis/otoservis-backend/pkg/enums"
	pkgerrors "github.com/otoservis/otoservis-backend/pkg/errors"
	"github.com/otoservis/otoservis-backend/pkg/logger"
	"github.com/otoservis/otoservis-backend/pkg/pagination"
)

const messageTimeFormat = "02.01.2006 15:04"

// Service dispatches customer messages and exposes the audit log.
type Service interface {
	WorkOrderCreated(ctx context.Context, event WorkOrderEvent)
	WorkOrderDone(ctx context.Context, event WorkOrderEvent)
	TireStored(ctx context.Context, event TireHotelEvent)
	TireDelivered(ctx context.Context, event TireHotelEvent)
	TireDueReminder(ctx context.Context, event TireHotelEvent)
	List(ctx context.Context, params ListParams) (*ListResult, error)
}

// WorkOrderEvent carries the customer-facing facts of a work order trigger.
type WorkOrderEvent struct {
	BranchID      uuid.UUID
	WorkOrderID   uuid.UUID
	CustomerID    uuid.UUID
	CustomerName  string
	CustomerPhone string
	Plate         string
	Kind          enums.WorkOrderKind
	GrandTotal    decimal.Decimal
	At            time.Time
}

// TireHotelEvent carries the customer-facing facts of a tire hotel trigger.
type TireHotelEvent struct {
	BranchID      uuid.UUID
	EntryID       uuid.UUID
	CustomerID    uuid.UUID
	CustomerName  string
	CustomerPhone string
	Plate         string
	Rack          string
	Slot          string
	DueDate       *time.Time
	At            time.Time
}

// ListParams configures pagination for the audit view.
type ListParams struct {
	BranchID    uuid.UUID
	WorkOrderID *uuid.UUID
	Limit       int
	Cursor      string
}

// ListResult wraps returned log rows and the cursor for the next page.
type ListResult struct {
	Items  []models.NotificationLog `json:"items"`
	Cursor string                   `json:"cursor"`
}

type service struct {
	repo      Repository
	transport Transport
	logg      *logger.Logger
}

// NewService wires the notification dispatcher.
func NewService(repo Repository, transport Transport, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notifications repository required")
	}
	if transport == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notification transport required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	return &service{repo: repo, transport: transport, logg: logg}, nil
}

func (s *service) WorkOrderCreated(ctx context.Context, event WorkOrderEvent) {
	msg := fmt.Sprintf(
		"Merhaba %s.\nAracınız servise alındı ✅\nPlaka: %s\nİşlem: %s\nTarih: %s",
		event.CustomerName, event.Plate, event.Kind.Label(), event.At.Format(messageTimeFormat),
	)
	s.dispatch(ctx, outbound{
		branchID:    event.BranchID,
		customerID:  optionalID(event.CustomerID),
		workOrderID: &event.WorkOrderID,
		phone:       event.CustomerPhone,
		message:     msg,
	})
}

func (s *service) WorkOrderDone(ctx context.Context, event WorkOrderEvent) {
	msg := fmt.Sprintf(
		"Merhaba %s.\nAracınız (%s) hazır ✅\nİşlem: %s\nToplam: %s TL\nTarih: %s",
		event.CustomerName, event.Plate, event.Kind.Label(),
		event.GrandTotal.StringFixed(2), event.At.Format(messageTimeFormat),
	)
	s.dispatch(ctx, outbound{
		branchID:    event.BranchID,
		customerID:  optionalID(event.CustomerID),
		workOrderID: &event.WorkOrderID,
		phone:       event.CustomerPhone,
		message:     msg,
	})
}

func (s *service) TireStored(ctx context.Context, event TireHotelEvent) {
	loc := event.Rack + "/" + event.Slot
	msg := fmt.Sprintf(
		"Merhaba %s.\nLastikleriniz depoya alındı ✅\nPlaka: %s\nKonum: %s\nTarih: %s",
		event.CustomerName, event.Plate, loc, event.At.Format(messageTimeFormat),
	)
	s.dispatch(ctx, outbound{
		branchID:   event.BranchID,
		customerID: optionalID(event.CustomerID),
		phone:      event.CustomerPhone,
		message:    msg,
	})
}

func (s *service) TireDelivered(ctx context.Context, event TireHotelEvent) {
	msg := fmt.Sprintf(
		"Merhaba %s.\nLastikleriniz teslim edildi ✅\nPlaka: %s\nTarih: %s",
		event.CustomerName, event.Plate, event.At.Format(messageTimeFormat),
	)
	s.dispatch(ctx, outbound{
		branchID:   event.BranchID,
		customerID: optionalID(event.CustomerID),
		phone:      event.CustomerPhone,
		message:    msg,
	})
}

func (s *service) TireDueReminder(ctx context.Context, event TireHotelEvent) {
	due := "-"
	if event.DueDate != nil {
		due = event.DueDate.Format("02.01.2006")
	}
	msg := fmt.Sprintf(
		"Merhaba %s.\nLastik otel kaydınız için hatırlatma 🔔\nPlaka: %s\nKonum: Depo1 %s/%s\nSon tarih: %s",
		event.CustomerName, event.Plate, event.Rack, event.Slot, due,
	)
	s.dispatch(ctx, outbound{
		branchID:   event.BranchID,
		customerID: optionalID(event.CustomerID),
		phone:      event.CustomerPhone,
		message:    msg,
	})
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	if params.BranchID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "active branch id required")
	}

	query := ListLogsParams{
		BranchID:    params.BranchID,
		WorkOrderID: params.WorkOrderID,
		Limit:       params.Limit,
	}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	rows, next, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list notification logs")
	}

	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}

	return &ListResult{Items: rows, Cursor: cursor}, nil
}

// optionalID keeps log rows clean when the triggering record lost its
// customer link; uuid.Nil would violate the audit table's foreign key.
func optionalID(id uuid.UUID) *uuid.UUID {
	if id == uuid.Nil {
		return nil
	}
	return &id
}

type outbound struct {
	branchID    uuid.UUID
	customerID  *uuid.UUID
	workOrderID *uuid.UUID
	phone       string
	message     string
}

// dispatch is best effort: triggers run after the owning transaction commits
// and must never fail the API operation that produced them.
func (s *service) dispatch(ctx context.Context, out outbound) {
	to := NormalizePhoneTR(out.phone)
	if to == "" {
		return
	}

	entry := &models.NotificationLog{
		BranchID:    out.branchID,
		CustomerID:  out.customerID,
		WorkOrderID: out.workOrderID,
		Channel:     enums.NotificationChannelWhatsApp,
		Recipient:   to,
		Message:     out.message,
		Status:      enums.NotificationStatusPending,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		s.logg.Error(ctx, "create notification log", err)
		return
	}

	sid, err := s.transport.Send(ctx, enums.NotificationChannelWhatsApp, to, out.message)
	var update DeliveryUpdate
	if err != nil {
		errMsg := err.Error()
		update.Status = enums.NotificationStatusFailed
		update.ErrorMessage = &errMsg
	} else {
		now := time.Now().UTC()
		update.Status = enums.NotificationStatusSent
		update.SentAt = &now
		if sid != "" {
			update.ProviderSID = &sid
		}
	}

	if err := s.repo.UpdateDelivery(ctx, entry.ID, update); err != nil {
		s.logg.Error(ctx, "update notification log", err)
	}
}
