package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/otoservis/otoservis-backend/pkg/db/models"
	"github.com/otoservis/otoservis-backend/pkg/enums"
)

// Repository exposes persistence for parts and the stock-move ledger.
// Stock moves are append-only; there are no update or delete methods for them.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreatePart(ctx context.Context, part *models.Part) (*models.Part, error)
	UpdatePart(ctx context.Context, part *models.Part) error
	FindPartByID(ctx context.Context, branchID, partID uuid.UUID) (*models.Part, error)
	FindActivePartByID(ctx context.Context, branchID, partID uuid.UUID) (*models.Part, error)
	ListActiveParts(ctx context.Context, branchID uuid.UUID) ([]models.Part, error)
	SearchParts(ctx context.Context, branchID uuid.UUID, q string, limit int) ([]models.Part, error)

	CreateStockMove(ctx context.Context, move *models.StockMove) error
	ListStockMoves(ctx context.Context, branchID, partID uuid.UUID, limit int) ([]models.StockMove, error)
	Stock(ctx context.Context, branchID, partID uuid.UUID) (decimal.Decimal, error)
	StockByPart(ctx context.Context, branchID uuid.UUID, partIDs []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error)
	LowStockParts(ctx context.Context, branchID uuid.UUID) ([]PartWithStock, error)
}

// PartWithStock pairs a part with its computed ledger balance.
type PartWithStock struct {
	Part  models.Part
	Stock decimal.Decimal
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an inventory repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreatePart(ctx context.Context, part *models.Part) (*models.Part, error) {
	if err := r.db.WithContext(ctx).Create(part).Error; err != nil {
		return nil, err
	}
	return part, nil
}

func (r *repository) UpdatePart(ctx context.Context, part *models.Part) error {
	return r.db.WithContext(ctx).Save(part).Error
}

func (r *repository) FindPartByID(ctx context.Context, branchID, partID uuid.UUID) (*models.Part, error) {
	var part models.Part
	err := r.db.WithContext(ctx).
		Where("id = ? AND branch_id = ?", partID, branchID).
		First(&part).Error
	if err != nil {
		return nil, err
	}
	return &part, nil
}

func (r *repository) FindActivePartByID(ctx context.Context, branchID, partID uuid.UUID) (*models.Part, error) {
	var part models.Part
	err := r.db.WithContext(ctx).
		Where("id = ? AND branch_id = ? AND is_active", partID, branchID).
		First(&part).Error
	if err != nil {
		return nil, err
	}
	return &part, nil
}

func (r *repository) ListActiveParts(ctx context.Context, branchID uuid.UUID) ([]models.Part, error) {
	var parts []models.Part
	err := r.db.WithContext(ctx).
		Where("branch_id = ? AND is_active", branchID).
		Order("name ASC").
		Find(&parts).Error
	if err != nil {
		return nil, err
	}
	return parts, nil
}

func (r *repository) SearchParts(ctx context.Context, branchID uuid.UUID, q string, limit int) ([]models.Part, error) {
	query := r.db.WithContext(ctx).
		Where("branch_id = ? AND is_active", branchID)

	if q != "" {
		like := "%" + q + "%"
		query = query.Where(
			"LOWER(name) LIKE LOWER(?) OR LOWER(barcode) LIKE LOWER(?) OR LOWER(sku) LIKE LOWER(?)",
			like, like, like,
		)
	}

	var parts []models.Part
	err := query.
		Order("name ASC").
		Limit(limit).
		Find(&parts).Error
	if err != nil {
		return nil, err
	}
	return parts, nil
}

func (r *repository) CreateStockMove(ctx context.Context, move *models.StockMove) error {
	return r.db.WithContext(ctx).Create(move).Error
}

func (r *repository) ListStockMoves(ctx context.Context, branchID, partID uuid.UUID, limit int) ([]models.StockMove, error) {
	var moves []models.StockMove
	err := r.db.WithContext(ctx).
		Where("branch_id = ? AND part_id = ?", branchID, partID).
		Order("created_at DESC").
		Limit(limit).
		Find(&moves).Error
	if err != nil {
		return nil, err
	}
	return moves, nil
}

// Stock computes the ledger balance as IN minus OUT. The balance is never
// stored on the part row.
func (r *repository) Stock(ctx context.Context, branchID, partID uuid.UUID) (decimal.Decimal, error) {
	var balance decimal.NullDecimal
	err := r.db.WithContext(ctx).
		Model(&models.StockMove{}).
		Select("COALESCE(SUM(CASE WHEN type = ? THEN qty ELSE -qty END), 0)", enums.StockMoveTypeIn).
		Where("branch_id = ? AND part_id = ?", branchID, partID).
		Scan(&balance).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !balance.Valid {
		return decimal.Zero, nil
	}
	return balance.Decimal, nil
}

func (r *repository) StockByPart(ctx context.Context, branchID uuid.UUID, partIDs []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	out := make(map[uuid.UUID]decimal.Decimal, len(partIDs))
	if len(partIDs) == 0 {
		return out, nil
	}

	var rows []struct {
		PartID  uuid.UUID       `gorm:"column:part_id"`
		Balance decimal.Decimal `gorm:"column:balance"`
	}
	err := r.db.WithContext(ctx).
		Model(&models.StockMove{}).
		Select("part_id, COALESCE(SUM(CASE WHEN type = ? THEN qty ELSE -qty END), 0) AS balance", enums.StockMoveTypeIn).
		Where("branch_id = ? AND part_id IN ?", branchID, partIDs).
		Group("part_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.PartID] = row.Balance
	}
	return out, nil
}

func (r *repository) LowStockParts(ctx context.Context, branchID uuid.UUID) ([]PartWithStock, error) {
	parts, err := r.ListActiveParts(ctx, branchID)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(parts))
	for _, part := range parts {
		ids = append(ids, part.ID)
	}
	balances, err := r.StockByPart(ctx, branchID, ids)
	if err != nil {
		return nil, err
	}

	low := make([]PartWithStock, 0)
	for _, part := range parts {
		stock := balances[part.ID]
		if stock.LessThan(part.MinStock) {
			low = append(low, PartWithStock{Part: part, Stock: stock})
		}
	}
	return low, nil
}
