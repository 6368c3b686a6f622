package reports

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/otoservis/otoservis-backend/pkg/enums"
	pkgerrors "github.com/otoservis/otoservis-backend/pkg/errors"
)

type stubReportsRepo struct {
	revenue []RevenueRow
	profit  []ProfitRow

	gotStart time.Time
	gotEnd   time.Time
}

func (s *stubReportsRepo) DailyRevenue(ctx context.Context, branchID uuid.UUID, start, end time.Time) ([]RevenueRow, error) {
	s.gotStart, s.gotEnd = start, end
	return s.revenue, nil
}

func (s *stubReportsRepo) DailyProfit(ctx context.Context, branchID uuid.UUID, start, end time.Time) ([]ProfitRow, error) {
	s.gotStart, s.gotEnd = start, end
	return s.profit, nil
}

type stubCounters struct {
	today int64
	open  int64
	tires int64
}

func (s *stubCounters) CountByStatus(ctx context.Context, branchID uuid.UUID, statuses []enums.WorkOrderStatus) (int64, error) {
	return s.open, nil
}

func (s *stubCounters) CountCreatedSince(ctx context.Context, branchID uuid.UUID, since time.Time) (int64, error) {
	return s.today, nil
}

func (s *stubCounters) CountActive(ctx context.Context, branchID uuid.UUID) (int64, error) {
	return s.tires, nil
}

func newTestService(t *testing.T, repo Repository, counters *stubCounters) Service {
	t.Helper()
	svc, err := NewService(repo, counters, counters)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func day(value string) time.Time {
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return parsed
}

func TestRevenue_SumsRangeTotals(t *testing.T) {
	repo := &stubReportsRepo{
		revenue: []RevenueRow{
			{Day: day("2026-08-01"), Count: 2,
				SumGrand: decimal.RequireFromString("500"),
				SumLabor: decimal.RequireFromString("300"),
				SumParts: decimal.RequireFromString("200")},
			{Day: day("2026-08-02"), Count: 1,
				SumGrand: decimal.RequireFromString("250"),
				SumLabor: decimal.RequireFromString("250"),
				SumParts: decimal.Zero},
		},
	}
	svc := newTestService(t, repo, &stubCounters{})

	report, err := svc.Revenue(context.Background(), uuid.New(), "2026-08-01", "2026-08-02")
	if err != nil {
		t.Fatalf("Revenue: %v", err)
	}
	if report.Totals.Count != 3 {
		t.Errorf("count = %d, want 3", report.Totals.Count)
	}
	if !report.Totals.SumGrand.Equal(decimal.RequireFromString("750")) {
		t.Errorf("grand = %s, want 750", report.Totals.SumGrand)
	}
	if report.Start != "2026-08-01" || report.End != "2026-08-02" {
		t.Errorf("range echoed as %s..%s", report.Start, report.End)
	}
	// half-open window: the end day itself must be included
	if !repo.gotEnd.Equal(day("2026-08-03")) {
		t.Errorf("query end = %s, want exclusive 2026-08-03", repo.gotEnd)
	}
}

func TestProfit_ComputesPerDayAndTotals(t *testing.T) {
	repo := &stubReportsRepo{
		profit: []ProfitRow{
			{Day: day("2026-08-01"), Count: 2,
				Revenue:   decimal.RequireFromString("500"),
				PartsCost: decimal.RequireFromString("120")},
			{Day: day("2026-08-02"), Count: 1,
				Revenue:   decimal.RequireFromString("300"),
				PartsCost: decimal.Zero},
		},
	}
	svc := newTestService(t, repo, &stubCounters{})

	report, err := svc.Profit(context.Background(), uuid.New(), "2026-08-01", "2026-08-02")
	if err != nil {
		t.Fatalf("Profit: %v", err)
	}
	if !report.Rows[0].Profit.Equal(decimal.RequireFromString("380")) {
		t.Errorf("day profit = %s, want 380", report.Rows[0].Profit)
	}
	if !report.Totals.Profit.Equal(decimal.RequireFromString("680")) {
		t.Errorf("total profit = %s, want 680", report.Totals.Profit)
	}
}

func TestRevenue_RejectsInvertedRange(t *testing.T) {
	svc := newTestService(t, &stubReportsRepo{}, &stubCounters{})

	_, err := svc.Revenue(context.Background(), uuid.New(), "2026-08-10", "2026-08-01")
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDashboard(t *testing.T) {
	counters := &stubCounters{today: 4, open: 7, tires: 12}
	svc := newTestService(t, &stubReportsRepo{}, counters)

	dash, err := svc.Dashboard(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if dash.TodayOrders != 4 || dash.OpenOrders != 7 || dash.ActiveTireSets != 12 {
		t.Errorf("dashboard = %+v", dash)
	}
}
