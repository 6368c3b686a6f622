package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/otoservis/otoservis-backend/pkg/db/models"
)

// PartDTO is the API shape for a part, including its ledger stock.
type PartDTO struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	SKU       string          `json:"sku,omitempty"`
	Barcode   string          `json:"barcode,omitempty"`
	Brand     string          `json:"brand,omitempty"`
	Unit      string          `json:"unit"`
	CostPrice decimal.Decimal `json:"cost_price"`
	SalePrice decimal.Decimal `json:"sale_price"`
	MinStock  decimal.Decimal `json:"min_stock"`
	Stock     decimal.Decimal `json:"stock"`
	IsActive  bool            `json:"is_active"`
	CreatedAt time.Time       `json:"created_at"`
}

// PartSearchResult is the compact shape served to part pickers.
type PartSearchResult struct {
	ID      uuid.UUID       `json:"id"`
	Text    string          `json:"text"`
	Barcode string          `json:"barcode,omitempty"`
	Price   decimal.Decimal `json:"price"`
	Stock   decimal.Decimal `json:"stock"`
}

// CreatePartRequest captures the payload for a new part. Price fields arrive
// as strings so comma decimals can be accepted.
type CreatePartRequest struct {
	Name      string `json:"name" validate:"required,min=2"`
	SKU       string `json:"sku,omitempty"`
	Barcode   string `json:"barcode,omitempty"`
	Brand     string `json:"brand,omitempty"`
	Unit      string `json:"unit,omitempty"`
	CostPrice string `json:"cost_price,omitempty"`
	SalePrice string `json:"sale_price,omitempty"`
	MinStock  string `json:"min_stock,omitempty"`
}

// UpdatePartRequest carries the editable part fields.
type UpdatePartRequest struct {
	Name      *string `json:"name,omitempty" validate:"omitempty,min=2"`
	SKU       *string `json:"sku,omitempty"`
	Barcode   *string `json:"barcode,omitempty"`
	Brand     *string `json:"brand,omitempty"`
	Unit      *string `json:"unit,omitempty"`
	CostPrice *string `json:"cost_price,omitempty"`
	SalePrice *string `json:"sale_price,omitempty"`
	MinStock  *string `json:"min_stock,omitempty"`
	IsActive  *bool   `json:"is_active,omitempty"`
}

// StockInRequest records a purchase or correction into the ledger.
type StockInRequest struct {
	Qty      string  `json:"qty" validate:"required"`
	UnitCost string  `json:"unit_cost,omitempty"`
	Note     *string `json:"note,omitempty"`
}

// StockMoveDTO is the API shape for a ledger entry.
type StockMoveDTO struct {
	ID          uuid.UUID       `json:"id"`
	Type        string          `json:"type"`
	Qty         decimal.Decimal `json:"qty"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	WorkOrderID *uuid.UUID      `json:"work_order_id,omitempty"`
	Note        *string         `json:"note,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

func toPartDTO(part *models.Part, stock decimal.Decimal) PartDTO {
	return PartDTO{
		ID:        part.ID,
		Name:      part.Name,
		SKU:       part.SKU,
		Barcode:   part.Barcode,
		Brand:     part.Brand,
		Unit:      part.Unit,
		CostPrice: part.CostPrice,
		SalePrice: part.SalePrice,
		MinStock:  part.MinStock,
		Stock:     stock,
		IsActive:  part.IsActive,
		CreatedAt: part.CreatedAt,
	}
}

func toSearchResult(part *models.Part, stock decimal.Decimal) PartSearchResult {
	text := part.Name
	if part.Brand != "" {
		text = part.Name + " (" + part.Brand + ")"
	}
	return PartSearchResult{
		ID:      part.ID,
		Text:    text,
		Barcode: part.Barcode,
		Price:   part.SalePrice,
		Stock:   stock,
	}
}

func toStockMoveDTO(move *models.StockMove) StockMoveDTO {
	return StockMoveDTO{
		ID:          move.ID,
		Type:        string(move.Type),
		Qty:         move.Qty,
		UnitCost:    move.UnitCost,
		WorkOrderID: move.WorkOrderID,
		Note:        move.Note,
		CreatedAt:   move.CreatedAt,
	}
}
