package inventory

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/otoservis/otoservis-backend/pkg/db/models"
	"github.com/otoservis/otoservis-backend/pkg/enums"
	pkgerrors "github.com/otoservis/otoservis-backend/pkg/errors"
)

type stubInventoryRepo struct {
	parts map[uuid.UUID]*models.Part
	moves []*models.StockMove
}

func newStubInventoryRepo() *stubInventoryRepo {
	return &stubInventoryRepo{parts: make(map[uuid.UUID]*models.Part)}
}

func (s *stubInventoryRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubInventoryRepo) CreatePart(ctx context.Context, part *models.Part) (*models.Part, error) {
	if part.ID == uuid.Nil {
		part.ID = uuid.New()
	}
	s.parts[part.ID] = part
	return part, nil
}

func (s *stubInventoryRepo) UpdatePart(ctx context.Context, part *models.Part) error {
	s.parts[part.ID] = part
	return nil
}

func (s *stubInventoryRepo) FindPartByID(ctx context.Context, branchID, partID uuid.UUID) (*models.Part, error) {
	part, ok := s.parts[partID]
	if !ok || part.BranchID != branchID {
		return nil, gorm.ErrRecordNotFound
	}
	return part, nil
}

func (s *stubInventoryRepo) FindActivePartByID(ctx context.Context, branchID, partID uuid.UUID) (*models.Part, error) {
	part, err := s.FindPartByID(ctx, branchID, partID)
	if err != nil || !part.IsActive {
		return nil, gorm.ErrRecordNotFound
	}
	return part, nil
}

func (s *stubInventoryRepo) ListActiveParts(ctx context.Context, branchID uuid.UUID) ([]models.Part, error) {
	out := make([]models.Part, 0)
	for _, part := range s.parts {
		if part.BranchID == branchID && part.IsActive {
			out = append(out, *part)
		}
	}
	return out, nil
}

func (s *stubInventoryRepo) SearchParts(ctx context.Context, branchID uuid.UUID, q string, limit int) ([]models.Part, error) {
	out := make([]models.Part, 0)
	for _, part := range s.parts {
		if part.BranchID != branchID || !part.IsActive {
			continue
		}
		if q == "" || strings.Contains(strings.ToLower(part.Name), strings.ToLower(q)) ||
			strings.Contains(part.Barcode, q) || strings.Contains(part.SKU, q) {
			out = append(out, *part)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *stubInventoryRepo) CreateStockMove(ctx context.Context, move *models.StockMove) error {
	if move.ID == uuid.Nil {
		move.ID = uuid.New()
	}
	s.moves = append(s.moves, move)
	return nil
}

func (s *stubInventoryRepo) ListStockMoves(ctx context.Context, branchID, partID uuid.UUID, limit int) ([]models.StockMove, error) {
	out := make([]models.StockMove, 0)
	for _, move := range s.moves {
		if move.BranchID == branchID && move.PartID == partID {
			out = append(out, *move)
		}
	}
	return out, nil
}

func (s *stubInventoryRepo) Stock(ctx context.Context, branchID, partID uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, move := range s.moves {
		if move.BranchID != branchID || move.PartID != partID {
			continue
		}
		if move.Type == enums.StockMoveTypeIn {
			total = total.Add(move.Qty)
		} else {
			total = total.Sub(move.Qty)
		}
	}
	return total, nil
}

func (s *stubInventoryRepo) StockByPart(ctx context.Context, branchID uuid.UUID, partIDs []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	out := make(map[uuid.UUID]decimal.Decimal, len(partIDs))
	for _, id := range partIDs {
		stock, _ := s.Stock(ctx, branchID, id)
		out[id] = stock
	}
	return out, nil
}

func (s *stubInventoryRepo) LowStockParts(ctx context.Context, branchID uuid.UUID) ([]PartWithStock, error) {
	low := make([]PartWithStock, 0)
	for _, part := range s.parts {
		if part.BranchID != branchID || !part.IsActive {
			continue
		}
		stock, _ := s.Stock(ctx, branchID, part.ID)
		if stock.LessThan(part.MinStock) {
			low = append(low, PartWithStock{Part: *part, Stock: stock})
		}
	}
	return low, nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func newTestService(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(repo, stubTxRunner{})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestCreatePart_AssignsSyntheticBarcode(t *testing.T) {
	repo := newStubInventoryRepo()
	svc := newTestService(t, repo)
	branchID := uuid.New()

	dto, err := svc.CreatePart(context.Background(), branchID, CreatePartRequest{
		Name:      "Yağ filtresi",
		SalePrice: "250,00",
		CostPrice: "180,50",
	})
	if err != nil {
		t.Fatalf("CreatePart: %v", err)
	}
	wantBarcode := "OS-" + branchID.String() + "-" + dto.ID.String()
	if dto.Barcode != wantBarcode {
		t.Errorf("barcode = %q, want %q", dto.Barcode, wantBarcode)
	}
	if !dto.SalePrice.Equal(decimal.RequireFromString("250")) {
		t.Errorf("sale price = %s, comma decimal not parsed", dto.SalePrice)
	}
	if !dto.CostPrice.Equal(decimal.RequireFromString("180.5")) {
		t.Errorf("cost price = %s", dto.CostPrice)
	}
	if dto.Unit != "adet" {
		t.Errorf("unit = %q, want default", dto.Unit)
	}
}

func TestCreatePart_KeepsProvidedBarcode(t *testing.T) {
	repo := newStubInventoryRepo()
	svc := newTestService(t, repo)

	dto, err := svc.CreatePart(context.Background(), uuid.New(), CreatePartRequest{
		Name:    "Balata",
		Barcode: "869000123",
	})
	if err != nil {
		t.Fatalf("CreatePart: %v", err)
	}
	if dto.Barcode != "869000123" {
		t.Errorf("barcode = %q, want the provided one", dto.Barcode)
	}
}

func TestStockIn_RejectsNonPositiveQty(t *testing.T) {
	repo := newStubInventoryRepo()
	branchID := uuid.New()
	partID := uuid.New()
	repo.parts[partID] = &models.Part{ID: partID, BranchID: branchID, Name: "Balata", IsActive: true}
	svc := newTestService(t, repo)

	err := svc.StockIn(context.Background(), branchID, partID, uuid.New(), StockInRequest{Qty: "0"})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(repo.moves) != 0 {
		t.Error("no move should be recorded")
	}
}

func TestStockIn_RecordsLedgerEntry(t *testing.T) {
	repo := newStubInventoryRepo()
	branchID := uuid.New()
	partID := uuid.New()
	repo.parts[partID] = &models.Part{ID: partID, BranchID: branchID, Name: "Balata", IsActive: true}
	svc := newTestService(t, repo)

	err := svc.StockIn(context.Background(), branchID, partID, uuid.New(), StockInRequest{
		Qty:      "4,5",
		UnitCost: "120",
	})
	if err != nil {
		t.Fatalf("StockIn: %v", err)
	}
	if len(repo.moves) != 1 {
		t.Fatalf("moves = %d, want 1", len(repo.moves))
	}
	move := repo.moves[0]
	if move.Type != enums.StockMoveTypeIn {
		t.Errorf("type = %s", move.Type)
	}
	if !move.Qty.Equal(decimal.RequireFromString("4.5")) {
		t.Errorf("qty = %s", move.Qty)
	}
	if move.Note == nil || *move.Note != "Stok girişi" {
		t.Error("default note missing")
	}

	stock, err := svc.Stock(context.Background(), nil, branchID, partID)
	if err != nil {
		t.Fatalf("Stock: %v", err)
	}
	if !stock.Equal(decimal.RequireFromString("4.5")) {
		t.Errorf("stock = %s, want 4.5", stock)
	}
}

func TestLowStockParts_ReturnsUnderStockedParts(t *testing.T) {
	repo := newStubInventoryRepo()
	branchID := uuid.New()
	lowID := uuid.New()
	okID := uuid.New()
	repo.parts[lowID] = &models.Part{
		ID: lowID, BranchID: branchID, Name: "Antifriz", IsActive: true,
		MinStock: decimal.RequireFromString("5"),
	}
	repo.parts[okID] = &models.Part{
		ID: okID, BranchID: branchID, Name: "Silecek", IsActive: true,
		MinStock: decimal.RequireFromString("2"),
	}
	repo.moves = append(repo.moves,
		&models.StockMove{BranchID: branchID, PartID: lowID, Type: enums.StockMoveTypeIn, Qty: decimal.RequireFromString("3")},
		&models.StockMove{BranchID: branchID, PartID: okID, Type: enums.StockMoveTypeIn, Qty: decimal.RequireFromString("10")},
	)
	svc := newTestService(t, repo)

	low, err := svc.LowStockParts(context.Background(), branchID)
	if err != nil {
		t.Fatalf("LowStockParts: %v", err)
	}
	if len(low) != 1 || low[0].ID != lowID {
		t.Fatalf("expected only the under-stocked part, got %d rows", len(low))
	}
	if !low[0].Stock.Equal(decimal.RequireFromString("3")) {
		t.Errorf("stock = %s", low[0].Stock)
	}
}
