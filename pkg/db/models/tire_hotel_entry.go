package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/otoservis/otoservis-backend/pkg/enums"
)

// TireHotelEntry records a stored tire set. Customer and vehicle links are
// optional; the plate text always identifies the set. Delivery stamps
// ReleasedAt and flips IsActive off; the row stays for history.
type TireHotelEntry struct {
	ID         uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BranchID   uuid.UUID        `gorm:"column:branch_id;type:uuid;not null;index"`
	CustomerID *uuid.UUID       `gorm:"column:customer_id;type:uuid;index"`
	VehicleID  *uuid.UUID       `gorm:"column:vehicle_id;type:uuid;index"`
	PlateText  string           `gorm:"column:plate_text;not null;default:''"`
	TireBrand  string           `gorm:"column:tire_brand;not null;default:''"`
	TireSize   string           `gorm:"column:tire_size;not null;default:''"`
	Season     enums.TireSeason `gorm:"column:season;type:tire_season;not null"`
	Rack       string           `gorm:"column:rack;not null;default:R1"`
	Slot       string           `gorm:"column:slot;not null;default:G1"`
	TireCount  int              `gorm:"column:tire_count;not null;default:4"`
	Price      decimal.Decimal  `gorm:"column:price;type:numeric(10,2);not null;default:0"`
	Note       *string          `gorm:"column:note"`
	DueDate    *time.Time       `gorm:"column:due_date;type:date;index"`
	IsActive   bool             `gorm:"column:is_active;not null;default:true"`
	StoredAt   time.Time        `gorm:"column:stored_at;not null"`
	ReleasedAt *time.Time       `gorm:"column:released_at"`
	CreatedAt  time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
