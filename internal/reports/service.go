package reports

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/otoservis/otoservis-backend/pkg/enums"
	pkgerrors "github.com/otoservis/otoservis-backend/pkg/errors"
)

const (
	dateFormat        = "2006-01-02"
	defaultWindowDays = 30
)

var openStatuses = []enums.WorkOrderStatus{
	enums.WorkOrderStatusWaiting,
	enums.WorkOrderStatusInProgress,
	enums.WorkOrderStatusWaitingAdmin,
}

type workOrderCounter interface {
	CountByStatus(ctx context.Context, branchID uuid.UUID, statuses []enums.WorkOrderStatus) (int64, error)
	CountCreatedSince(ctx context.Context, branchID uuid.UUID, since time.Time) (int64, error)
}

type tireCounter interface {
	CountActive(ctx context.Context, branchID uuid.UUID) (int64, error)
}

// RevenueReport is the daily series plus range totals.
type RevenueReport struct {
	Start  string           `json:"start"`
	End    string           `json:"end"`
	Rows   []RevenueRow     `json:"rows"`
	Totals RevenueTotals    `json:"totals"`
}

// RevenueTotals sums the whole range.
type RevenueTotals struct {
	Count    int64           `json:"count"`
	SumGrand decimal.Decimal `json:"sum_grand"`
	SumLabor decimal.Decimal `json:"sum_labor"`
	SumParts decimal.Decimal `json:"sum_parts"`
}

// ProfitReport is the daily profit series plus range totals.
type ProfitReport struct {
	Start  string        `json:"start"`
	End    string        `json:"end"`
	Rows   []ProfitRow   `json:"rows"`
	Totals ProfitTotals  `json:"totals"`
}

// ProfitTotals sums the whole range.
type ProfitTotals struct {
	Count     int64           `json:"count"`
	Revenue   decimal.Decimal `json:"revenue"`
	PartsCost decimal.Decimal `json:"parts_cost"`
	Profit    decimal.Decimal `json:"profit"`
}

// Dashboard carries the landing-page counters for the active branch.
type Dashboard struct {
	TodayOrders    int64 `json:"today_orders"`
	OpenOrders     int64 `json:"open_orders"`
	ActiveTireSets int64 `json:"active_tire_sets"`
}

// Service produces branch-scoped financial rollups.
type Service interface {
	Revenue(ctx context.Context, branchID uuid.UUID, start, end string) (*RevenueReport, error)
	Profit(ctx context.Context, branchID uuid.UUID, start, end string) (*ProfitReport, error)
	Dashboard(ctx context.Context, branchID uuid.UUID) (*Dashboard, error)
}

type service struct {
	repo   Repository
	orders workOrderCounter
	tires  tireCounter
	now    func() time.Time
}

// NewService builds a reports service with the required dependencies.
func NewService(repo Repository, orders workOrderCounter, tires tireCounter) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reports repository required")
	}
	if orders == nil {
		return nil, fmt.Errorf("work order counter required")
	}
	if tires == nil {
		return nil, fmt.Errorf("tire counter required")
	}
	return &service{repo: repo, orders: orders, tires: tires, now: time.Now}, nil
}

func (s *service) Revenue(ctx context.Context, branchID uuid.UUID, start, end string) (*RevenueReport, error) {
	from, to, err := s.resolveRange(start, end)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.DailyRevenue(ctx, branchID, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "revenue report")
	}

	totals := RevenueTotals{
		SumGrand: decimal.Zero,
		SumLabor: decimal.Zero,
		SumParts: decimal.Zero,
	}
	for _, row := range rows {
		totals.Count += row.Count
		totals.SumGrand = totals.SumGrand.Add(row.SumGrand)
		totals.SumLabor = totals.SumLabor.Add(row.SumLabor)
		totals.SumParts = totals.SumParts.Add(row.SumParts)
	}

	return &RevenueReport{
		Start:  from.Format(dateFormat),
		End:    to.AddDate(0, 0, -1).Format(dateFormat),
		Rows:   rows,
		Totals: totals,
	}, nil
}

func (s *service) Profit(ctx context.Context, branchID uuid.UUID, start, end string) (*ProfitReport, error) {
	from, to, err := s.resolveRange(start, end)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.DailyProfit(ctx, branchID, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "profit report")
	}

	totals := ProfitTotals{
		Revenue:   decimal.Zero,
		PartsCost: decimal.Zero,
	}
	for i := range rows {
		rows[i].Profit = rows[i].Revenue.Sub(rows[i].PartsCost)
		totals.Count += rows[i].Count
		totals.Revenue = totals.Revenue.Add(rows[i].Revenue)
		totals.PartsCost = totals.PartsCost.Add(rows[i].PartsCost)
	}
	totals.Profit = totals.Revenue.Sub(totals.PartsCost)

	return &ProfitReport{
		Start:  from.Format(dateFormat),
		End:    to.AddDate(0, 0, -1).Format(dateFormat),
		Rows:   rows,
		Totals: totals,
	}, nil
}

func (s *service) Dashboard(ctx context.Context, branchID uuid.UUID) (*Dashboard, error) {
	now := s.now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	today, err := s.orders.CountCreatedSince(ctx, branchID, midnight)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count today orders")
	}
	open, err := s.orders.CountByStatus(ctx, branchID, openStatuses)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count open orders")
	}
	tires, err := s.tires.CountActive(ctx, branchID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count active tire sets")
	}

	return &Dashboard{
		TodayOrders:    today,
		OpenOrders:     open,
		ActiveTireSets: tires,
	}, nil
}

// resolveRange turns inclusive date strings into a [start, end) timestamp
// window, defaulting to the last 30 days.
func (s *service) resolveRange(start, end string) (time.Time, time.Time, error) {
	now := s.now()
	from := now.AddDate(0, 0, -defaultWindowDays)
	to := now

	if strings.TrimSpace(start) != "" {
		parsed, err := time.Parse(dateFormat, strings.TrimSpace(start))
		if err != nil {
			return time.Time{}, time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid start date, expected YYYY-MM-DD")
		}
		from = parsed
	}
	if strings.TrimSpace(end) != "" {
		parsed, err := time.Parse(dateFormat, strings.TrimSpace(end))
		if err != nil {
			return time.Time{}, time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid end date, expected YYYY-MM-DD")
		}
		to = parsed
	}

	from = time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	to = time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	if !to.After(from) {
		return time.Time{}, time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "end date before start date")
	}
	return from, to, nil
}
