package tirehotel

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/otoservis/otoservis-backend/internal/customers"
	"github.com/otoservis/otoservis-backend/internal/notifications"
	"github.com/otoservis/otoservis-backend/pkg/db/models"
	"github.com/otoservis/otoservis-backend/pkg/enums"
	pkgerrors "github.com/otoservis/otoservis-backend/pkg/errors"
	"github.com/otoservis/otoservis-backend/pkg/numeric"
)

const (
	defaultRack      = "R1"
	defaultSlot      = "G1"
	defaultTireCount = 4
	dueDateFormat    = "2006-01-02"
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

type notifier interface {
	TireStored(ctx context.Context, event notifications.TireHotelEvent)
	TireDelivered(ctx context.Context, event notifications.TireHotelEvent)
	TireDueReminder(ctx context.Context, event notifications.TireHotelEvent)
}

// Service manages tire hotel check-in, storage edits, and delivery.
type Service interface {
	Create(ctx context.Context, branchID uuid.UUID, req CreateEntryRequest) (*EntryDTO, error)
	Get(ctx context.Context, branchID, entryID uuid.UUID) (*EntryDTO, error)
	List(ctx context.Context, branchID uuid.UUID, activeOnly bool) ([]EntryDTO, error)
	Update(ctx context.Context, branchID, entryID uuid.UUID, req UpdateEntryRequest) (*EntryDTO, error)
	Deliver(ctx context.Context, branchID, entryID uuid.UUID) (*EntryDTO, error)

	SendDueReminders(ctx context.Context, daysAhead int) (int, error)
}

type service struct {
	repo      Repository
	tx        txRunner
	vehicles  vehicleResolver
	customers customerDirectory
	notify    notifier
	now       func() time.Time
}

// NewService builds a tire hotel service with the required dependencies.
func NewService(repo Repository, tx txRunner, vehicles vehicleResolver, directory customerDirectory, notify notifier) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("tire hotel repository required")
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
	if notify == nil {
		return nil, fmt.Errorf("notifier required")
	}
	return &service{
		repo:      repo,
		tx:        tx,
		vehicles:  vehicles,
		customers: directory,
		notify:    notify,
		now:       time.Now,
	}, nil
}

func (s *service) Create(ctx context.Context, branchID uuid.UUID, req CreateEntryRequest) (*EntryDTO, error) {
	plate := customers.NormalizePlate(req.Plate)
	if plate == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "plate is required")
	}

	season := enums.TireSeasonWinter
	if strings.TrimSpace(req.Season) != "" {
		parsed, err := enums.ParseTireSeason(req.Season)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid season")
		}
		season = parsed
	}

	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		return nil, err
	}

	var (
		entry    *models.TireHotelEntry
		customer *models.Customer
	)
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		entry = &models.TireHotelEntry{
			BranchID:  branchID,
			PlateText: plate,
			TireBrand: strings.TrimSpace(req.TireBrand),
			TireSize:  strings.TrimSpace(req.TireSize),
			Season:    season,
			Rack:      orDefault(req.Rack, defaultRack),
			Slot:      orDefault(req.Slot, defaultSlot),
			TireCount: defaultTireCount,
			Price:     numeric.ParseLenientZero(req.Price),
			Note:      trimPtr(req.Note),
			DueDate:   dueDate,
			IsActive:  true,
			StoredAt:  s.now(),
		}
		if req.TireCount != nil && *req.TireCount > 0 {
			entry.TireCount = *req.TireCount
		}

		// Link the owner when the plate is known or enough customer data
		// came along to register it. A bare plate still gets stored.
		vehicle, owner, err := s.vehicles.ResolveVehicle(ctx, tx, customers.ResolveVehicleInput{
			BranchID: branchID,
			Plate:    plate,
			FullName: req.FullName,
			Phone:    req.Phone,
			Email:    req.Email,
		})
		switch {
		case err == nil:
			entry.VehicleID = &vehicle.ID
			entry.CustomerID = &owner.ID
			customer = owner
		case isValidation(err):
			// unknown plate without customer details, keep unlinked
		default:
			return err
		}

		entry, err = s.repo.WithTx(tx).Create(ctx, entry)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create tire hotel entry")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if customer != nil {
		s.notify.TireStored(ctx, s.event(entry, customer))
	}

	dto := toEntryDTO(entry)
	return &dto, nil
}

func (s *service) Get(ctx context.Context, branchID, entryID uuid.UUID) (*EntryDTO, error) {
	entry, err := s.repo.FindByID(ctx, branchID, entryID)
	if err != nil {
		return nil, mapNotFound(err, "tire hotel entry not found")
	}
	dto := toEntryDTO(entry)
	return &dto, nil
}

func (s *service) List(ctx context.Context, branchID uuid.UUID, activeOnly bool) ([]EntryDTO, error) {
	entries, err := s.repo.List(ctx, branchID, activeOnly)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list tire hotel entries")
	}

	dtos := make([]EntryDTO, 0, len(entries))
	for i := range entries {
		dtos = append(dtos, toEntryDTO(&entries[i]))
	}
	return dtos, nil
}

func (s *service) Update(ctx context.Context, branchID, entryID uuid.UUID, req UpdateEntryRequest) (*EntryDTO, error) {
	entry, err := s.repo.FindByID(ctx, branchID, entryID)
	if err != nil {
		return nil, mapNotFound(err, "tire hotel entry not found")
	}

	if req.TireBrand != nil {
		entry.TireBrand = strings.TrimSpace(*req.TireBrand)
	}
	if req.TireSize != nil {
		entry.TireSize = strings.TrimSpace(*req.TireSize)
	}
	if req.Season != nil {
		parsed, err := enums.ParseTireSeason(*req.Season)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid season")
		}
		entry.Season = parsed
	}
	if req.Rack != nil && strings.TrimSpace(*req.Rack) != "" {
		entry.Rack = strings.TrimSpace(*req.Rack)
	}
	if req.Slot != nil && strings.TrimSpace(*req.Slot) != "" {
		entry.Slot = strings.TrimSpace(*req.Slot)
	}
	if req.TireCount != nil && *req.TireCount > 0 {
		entry.TireCount = *req.TireCount
	}
	if req.Price != nil {
		entry.Price = numeric.ParseLenient(*req.Price, entry.Price)
	}
	if req.Note != nil {
		entry.Note = trimPtr(req.Note)
	}
	if req.DueDate != nil {
		dueDate, err := parseDueDate(req.DueDate)
		if err != nil {
			return nil, err
		}
		entry.DueDate = dueDate
	}

	if err := s.repo.Update(ctx, entry); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update tire hotel entry")
	}

	dto := toEntryDTO(entry)
	return &dto, nil
}

func (s *service) Deliver(ctx context.Context, branchID, entryID uuid.UUID) (*EntryDTO, error) {
	entry, err := s.repo.FindByID(ctx, branchID, entryID)
	if err != nil {
		return nil, mapNotFound(err, "tire hotel entry not found")
	}
	if !entry.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "tire set already delivered")
	}

	now := s.now()
	entry.IsActive = false
	entry.ReleasedAt = &now
	if err := s.repo.Update(ctx, entry); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deliver tire hotel entry")
	}

	if entry.CustomerID != nil {
		if customer, err := s.customers.FindCustomerByID(ctx, branchID, *entry.CustomerID); err == nil {
			s.notify.TireDelivered(ctx, s.event(entry, customer))
		}
	}

	dto := toEntryDTO(entry)
	return &dto, nil
}

// SendDueReminders messages owners of active sets whose due date falls within
// the look-ahead window. Returns how many reminders were handed off.
func (s *service) SendDueReminders(ctx context.Context, daysAhead int) (int, error) {
	if daysAhead < 0 {
		daysAhead = 0
	}
	dueBy := s.now().AddDate(0, 0, daysAhead)

	entries, err := s.repo.ListDue(ctx, dueBy)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list due entries")
	}

	sent := 0
	for i := range entries {
		entry := &entries[i]
		if entry.CustomerID == nil {
			continue
		}
		customer, err := s.customers.FindCustomerByID(ctx, entry.BranchID, *entry.CustomerID)
		if err != nil {
			continue
		}
		s.notify.TireDueReminder(ctx, s.event(entry, customer))
		sent++
	}
	return sent, nil
}

func (s *service) event(entry *models.TireHotelEntry, customer *models.Customer) notifications.TireHotelEvent {
	event := notifications.TireHotelEvent{
		BranchID: entry.BranchID,
		EntryID:  entry.ID,
		Plate:    entry.PlateText,
		Rack:     entry.Rack,
		Slot:     entry.Slot,
		DueDate:  entry.DueDate,
		At:       s.now(),
	}
	if customer != nil {
		event.CustomerID = customer.ID
		event.CustomerName = customer.FullName
		if customer.Phone != nil {
			event.CustomerPhone = *customer.Phone
		}
	}
	return event
}

func parseDueDate(raw *string) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	parsed, err := time.Parse(dueDateFormat, strings.TrimSpace(*raw))
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid due date, expected YYYY-MM-DD")
	}
	return &parsed, nil
}

func orDefault(value, fallback string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	return strings.ToUpper(trimmed)
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

func isValidation(err error) bool {
	appErr := pkgerrors.As(err)
	return appErr != nil && appErr.Code() == pkgerrors.CodeValidation
}

func mapNotFound(err error, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, message)
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, message)
}
