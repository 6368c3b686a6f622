package tirehotel

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/otoservis/otoservis-backend/pkg/db/models"
	"github.com/otoservis/otoservis-backend/pkg/enums"
)

// EntryDTO is the API shape of a tire hotel entry.
type EntryDTO struct {
	ID         uuid.UUID        `json:"id"`
	CustomerID *uuid.UUID       `json:"customer_id,omitempty"`
	VehicleID  *uuid.UUID       `json:"vehicle_id,omitempty"`
	Plate      string           `json:"plate"`
	TireBrand  string           `json:"tire_brand,omitempty"`
	TireSize   string           `json:"tire_size,omitempty"`
	Season     enums.TireSeason `json:"season"`
	Rack       string           `json:"rack"`
	Slot       string           `json:"slot"`
	TireCount  int              `json:"tire_count"`
	Price      decimal.Decimal  `json:"price"`
	Note       *string          `json:"note,omitempty"`
	DueDate    *time.Time       `json:"due_date,omitempty"`
	IsActive   bool             `json:"is_active"`
	StoredAt   time.Time        `json:"stored_at"`
	ReleasedAt *time.Time       `json:"released_at,omitempty"`
}

// CreateEntryRequest checks a tire set into storage. Customer fields are used
// only when the plate is not yet registered.
type CreateEntryRequest struct {
	Plate     string  `json:"plate" validate:"required,min=2"`
	TireBrand string  `json:"tire_brand,omitempty"`
	TireSize  string  `json:"tire_size,omitempty"`
	Season    string  `json:"season,omitempty"`
	Rack      string  `json:"rack,omitempty"`
	Slot      string  `json:"slot,omitempty"`
	TireCount *int    `json:"tire_count,omitempty"`
	Price     string  `json:"price,omitempty"`
	Note      *string `json:"note,omitempty"`
	DueDate   *string `json:"due_date,omitempty"`

	FullName string  `json:"full_name,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
}

// UpdateEntryRequest carries the editable storage fields.
type UpdateEntryRequest struct {
	TireBrand *string `json:"tire_brand,omitempty"`
	TireSize  *string `json:"tire_size,omitempty"`
	Season    *string `json:"season,omitempty"`
	Rack      *string `json:"rack,omitempty"`
	Slot      *string `json:"slot,omitempty"`
	TireCount *int    `json:"tire_count,omitempty"`
	Price     *string `json:"price,omitempty"`
	Note      *string `json:"note,omitempty"`
	DueDate   *string `json:"due_date,omitempty"`
}

func toEntryDTO(entry *models.TireHotelEntry) EntryDTO {
	return EntryDTO{
		ID:         entry.ID,
		CustomerID: entry.CustomerID,
		VehicleID:  entry.VehicleID,
		Plate:      entry.PlateText,
		TireBrand:  entry.TireBrand,
		TireSize:   entry.TireSize,
		Season:     entry.Season,
		Rack:       entry.Rack,
		Slot:       entry.Slot,
		TireCount:  entry.TireCount,
		Price:      entry.Price,
		Note:       entry.Note,
		DueDate:    entry.DueDate,
		IsActive:   entry.IsActive,
		StoredAt:   entry.StoredAt,
		ReleasedAt: entry.ReleasedAt,
	}
}
