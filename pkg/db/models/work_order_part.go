package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WorkOrderPart is a part line on a work order. UnitCost snapshots the
// part's cost price at attach time so later price edits do not rewrite
// historical profit.
type WorkOrderPart struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	WorkOrderID uuid.UUID       `gorm:"column:work_order_id;type:uuid;not null;index"`
	PartID      uuid.UUID       `gorm:"column:part_id;type:uuid;not null;index"`
	Qty         decimal.Decimal `gorm:"column:qty;type:numeric(10,2);not null"`
	UnitPrice   decimal.Decimal `gorm:"column:unit_price;type:numeric(10,2);not null;default:0"`
	UnitCost    decimal.Decimal `gorm:"column:unit_cost;type:numeric(10,2);not null;default:0"`
	LineTotal   decimal.Decimal `gorm:"column:line_total;type:numeric(10,2);not null;default:0"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
}
