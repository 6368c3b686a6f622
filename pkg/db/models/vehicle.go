package models

import (
	"time"

	"github.com/google/uuid"
)

// Vehicle belongs to a customer. Plates are stored uppercased without spaces
// so lookups by plate stay exact.
type Vehicle struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID uuid.UUID `gorm:"column:customer_id;type:uuid;not null;index"`
	BranchID   uuid.UUID `gorm:"column:branch_id;type:uuid;not null;uniqueIndex:idx_vehicles_branch_plate"`
	Plate      string    `gorm:"column:plate;not null;uniqueIndex:idx_vehicles_branch_plate"`
	Brand      *string   `gorm:"column:brand"`
	Model      *string   `gorm:"column:model"`
	Year       *int      `gorm:"column:year"`
	Note       *string   `gorm:"column:note"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
