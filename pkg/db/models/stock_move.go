package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/otoservis/otoservis-backend/pkg/enums"
)

// StockMove is an append-only ledger entry. Rows are never updated or
// deleted; corrections are compensating entries.
type StockMove struct {
	ID              uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BranchID        uuid.UUID           `gorm:"column:branch_id;type:uuid;not null;index"`
	PartID          uuid.UUID           `gorm:"column:part_id;type:uuid;not null;index"`
	Type            enums.StockMoveType `gorm:"column:type;type:stock_move_type;not null"`
	Qty             decimal.Decimal     `gorm:"column:qty;type:numeric(10,2);not null"`
	UnitCost        decimal.Decimal     `gorm:"column:unit_cost;type:numeric(10,2);not null;default:0"`
	WorkOrderID     *uuid.UUID          `gorm:"column:work_order_id;type:uuid;index"`
	Note            *string             `gorm:"column:note"`
	CreatedByUserID *uuid.UUID          `gorm:"column:created_by_user_id;type:uuid"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime"`
}
