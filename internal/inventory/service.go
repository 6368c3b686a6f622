package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/otoservis/otoservis-backend/pkg/db/models"
	"github.com/otoservis/otoservis-backend/pkg/enums"
	pkgerrors "github.com/otoservis/otoservis-backend/pkg/errors"
	"github.com/otoservis/otoservis-backend/pkg/numeric"
)

const (
	partSearchLimit    = 30
	stockMoveListLimit = 100
	defaultUnit        = "adet"
	stockInDefaultNote = "Stok girişi"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes the parts catalog and the stock ledger for a branch.
type Service interface {
	CreatePart(ctx context.Context, branchID uuid.UUID, req CreatePartRequest) (*PartDTO, error)
	UpdatePart(ctx context.Context, branchID, partID uuid.UUID, req UpdatePartRequest) (*PartDTO, error)
	GetPart(ctx context.Context, branchID, partID uuid.UUID) (*PartDTO, error)
	ListParts(ctx context.Context, branchID uuid.UUID) ([]PartDTO, error)
	SearchParts(ctx context.Context, branchID uuid.UUID, q string) ([]PartSearchResult, error)
	LowStockParts(ctx context.Context, branchID uuid.UUID) ([]PartDTO, error)

	StockIn(ctx context.Context, branchID, partID uuid.UUID, actorUserID uuid.UUID, req StockInRequest) error
	ListStockMoves(ctx context.Context, branchID, partID uuid.UUID) ([]StockMoveDTO, error)

	FindActivePart(ctx context.Context, tx *gorm.DB, branchID, partID uuid.UUID) (*models.Part, error)
	Stock(ctx context.Context, tx *gorm.DB, branchID, partID uuid.UUID) (decimal.Decimal, error)
	RecordMove(ctx context.Context, tx *gorm.DB, move *models.StockMove) error
}

type service struct {
	repo Repository
	tx   txRunner
}

// NewService builds an inventory service with the required dependencies.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) CreatePart(ctx context.Context, branchID uuid.UUID, req CreatePartRequest) (*PartDTO, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "part name is required")
	}

	unit := strings.TrimSpace(req.Unit)
	if unit == "" {
		unit = defaultUnit
	}

	var created *models.Part
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		part := &models.Part{
			BranchID:  branchID,
			Name:      name,
			SKU:       strings.TrimSpace(req.SKU),
			Barcode:   strings.TrimSpace(req.Barcode),
			Brand:     strings.TrimSpace(req.Brand),
			Unit:      unit,
			CostPrice: numeric.ParseLenientZero(req.CostPrice),
			SalePrice: numeric.ParseLenientZero(req.SalePrice),
			MinStock:  numeric.ParseLenientZero(req.MinStock),
			IsActive:  true,
		}
		part, err := repo.CreatePart(ctx, part)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create part")
		}

		// Parts without a physical barcode get a printable synthetic one.
		if part.Barcode == "" {
			part.Barcode = syntheticBarcode(part.BranchID, part.ID)
			if err := repo.UpdatePart(ctx, part); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "assign barcode")
			}
		}
		created = part
		return nil
	})
	if err != nil {
		return nil, err
	}

	dto := toPartDTO(created, decimal.Zero)
	return &dto, nil
}

func syntheticBarcode(branchID, partID uuid.UUID) string {
	return fmt.Sprintf("OS-%s-%s", branchID, partID)
}

func (s *service) UpdatePart(ctx context.Context, branchID, partID uuid.UUID, req UpdatePartRequest) (*PartDTO, error) {
	part, err := s.repo.FindPartByID(ctx, branchID, partID)
	if err != nil {
		return nil, mapNotFound(err, "part not found")
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "part name cannot be empty")
		}
		part.Name = name
	}
	if req.SKU != nil {
		part.SKU = strings.TrimSpace(*req.SKU)
	}
	if req.Barcode != nil && strings.TrimSpace(*req.Barcode) != "" {
		part.Barcode = strings.TrimSpace(*req.Barcode)
	}
	if req.Brand != nil {
		part.Brand = strings.TrimSpace(*req.Brand)
	}
	if req.Unit != nil && strings.TrimSpace(*req.Unit) != "" {
		part.Unit = strings.TrimSpace(*req.Unit)
	}
	if req.CostPrice != nil {
		part.CostPrice = numeric.ParseLenient(*req.CostPrice, part.CostPrice)
	}
	if req.SalePrice != nil {
		part.SalePrice = numeric.ParseLenient(*req.SalePrice, part.SalePrice)
	}
	if req.MinStock != nil {
		part.MinStock = numeric.ParseLenient(*req.MinStock, part.MinStock)
	}
	if req.IsActive != nil {
		part.IsActive = *req.IsActive
	}

	if err := s.repo.UpdatePart(ctx, part); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update part")
	}

	stock, err := s.repo.Stock(ctx, branchID, partID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "compute stock")
	}
	dto := toPartDTO(part, stock)
	return &dto, nil
}

func (s *service) GetPart(ctx context.Context, branchID, partID uuid.UUID) (*PartDTO, error) {
	part, err := s.repo.FindPartByID(ctx, branchID, partID)
	if err != nil {
		return nil, mapNotFound(err, "part not found")
	}

	stock, err := s.repo.Stock(ctx, branchID, partID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "compute stock")
	}
	dto := toPartDTO(part, stock)
	return &dto, nil
}

func (s *service) ListParts(ctx context.Context, branchID uuid.UUID) ([]PartDTO, error) {
	parts, err := s.repo.ListActiveParts(ctx, branchID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list parts")
	}

	ids := make([]uuid.UUID, 0, len(parts))
	for _, part := range parts {
		ids = append(ids, part.ID)
	}
	balances, err := s.repo.StockByPart(ctx, branchID, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "compute stock")
	}

	dtos := make([]PartDTO, 0, len(parts))
	for i := range parts {
		dtos = append(dtos, toPartDTO(&parts[i], balances[parts[i].ID]))
	}
	return dtos, nil
}

func (s *service) SearchParts(ctx context.Context, branchID uuid.UUID, q string) ([]PartSearchResult, error) {
	parts, err := s.repo.SearchParts(ctx, branchID, strings.TrimSpace(q), partSearchLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "search parts")
	}

	ids := make([]uuid.UUID, 0, len(parts))
	for _, part := range parts {
		ids = append(ids, part.ID)
	}
	balances, err := s.repo.StockByPart(ctx, branchID, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "compute stock")
	}

	results := make([]PartSearchResult, 0, len(parts))
	for i := range parts {
		results = append(results, toSearchResult(&parts[i], balances[parts[i].ID]))
	}
	return results, nil
}

func (s *service) LowStockParts(ctx context.Context, branchID uuid.UUID) ([]PartDTO, error) {
	rows, err := s.repo.LowStockParts(ctx, branchID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list low stock")
	}

	dtos := make([]PartDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, toPartDTO(&rows[i].Part, rows[i].Stock))
	}
	return dtos, nil
}

func (s *service) StockIn(ctx context.Context, branchID, partID uuid.UUID, actorUserID uuid.UUID, req StockInRequest) error {
	qty := numeric.ParseLenientZero(req.Qty)
	if qty.LessThanOrEqual(decimal.Zero) {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be greater than zero")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		part, err := repo.FindActivePartByID(ctx, branchID, partID)
		if err != nil {
			return mapNotFound(err, "part not found")
		}

		note := stockInDefaultNote
		if req.Note != nil && strings.TrimSpace(*req.Note) != "" {
			note = strings.TrimSpace(*req.Note)
		}

		move := &models.StockMove{
			BranchID:        branchID,
			PartID:          part.ID,
			Type:            enums.StockMoveTypeIn,
			Qty:             qty,
			UnitCost:        numeric.ParseLenientZero(req.UnitCost),
			Note:            &note,
			CreatedByUserID: &actorUserID,
		}
		if err := repo.CreateStockMove(ctx, move); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record stock in")
		}
		return nil
	})
}

func (s *service) ListStockMoves(ctx context.Context, branchID, partID uuid.UUID) ([]StockMoveDTO, error) {
	if _, err := s.repo.FindPartByID(ctx, branchID, partID); err != nil {
		return nil, mapNotFound(err, "part not found")
	}

	moves, err := s.repo.ListStockMoves(ctx, branchID, partID, stockMoveListLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list stock moves")
	}

	dtos := make([]StockMoveDTO, 0, len(moves))
	for i := range moves {
		dtos = append(dtos, toStockMoveDTO(&moves[i]))
	}
	return dtos, nil
}

// FindActivePart, Stock and RecordMove run inside a caller-owned transaction
// so part attachment can check and consume stock atomically with the work
// order changes.
func (s *service) FindActivePart(ctx context.Context, tx *gorm.DB, branchID, partID uuid.UUID) (*models.Part, error) {
	part, err := s.repo.WithTx(tx).FindActivePartByID(ctx, branchID, partID)
	if err != nil {
		return nil, mapNotFound(err, "part not found")
	}
	return part, nil
}

func (s *service) Stock(ctx context.Context, tx *gorm.DB, branchID, partID uuid.UUID) (decimal.Decimal, error) {
	stock, err := s.repo.WithTx(tx).Stock(ctx, branchID, partID)
	if err != nil {
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "compute stock")
	}
	return stock, nil
}

func (s *service) RecordMove(ctx context.Context, tx *gorm.DB, move *models.StockMove) error {
	if err := s.repo.WithTx(tx).CreateStockMove(ctx, move); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record stock move")
	}
	return nil
}

func mapNotFound(err error, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, message)
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, message)
}
