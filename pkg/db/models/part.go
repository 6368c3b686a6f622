package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Part is a catalog row. Stock is never stored here; it is always the sum of
// the part's stock moves.
type Part struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BranchID  uuid.UUID       `gorm:"column:branch_id;type:uuid;not null;index"`
	Name      string          `gorm:"column:name;not null"`
	SKU       string          `gorm:"column:sku;not null;default:''"`
	Barcode   string          `gorm:"column:barcode;not null;default:''"`
	Brand     string          `gorm:"column:brand;not null;default:''"`
	Unit      string          `gorm:"column:unit;not null;default:adet"`
	CostPrice decimal.Decimal `gorm:"column:cost_price;type:numeric(10,2);not null;default:0"`
	SalePrice decimal.Decimal `gorm:"column:sale_price;type:numeric(10,2);not null;default:0"`
	MinStock  decimal.Decimal `gorm:"column:min_stock;type:numeric(10,2);not null;default:0"`
	IsActive  bool            `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
