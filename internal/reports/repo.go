package reports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/otoservis/otoservis-backend/pkg/enums"
)

// RevenueRow is one day of finished work orders.
type RevenueRow struct {
	Day      time.Time       `gorm:"column:day" json:"day"`
	Count    int64           `gorm:"column:count" json:"count"`
	SumGrand decimal.Decimal `gorm:"column:sum_grand" json:"sum_grand"`
	SumLabor decimal.Decimal `gorm:"column:sum_labor" json:"sum_labor"`
	SumParts decimal.Decimal `gorm:"column:sum_parts" json:"sum_parts"`
}

// ProfitRow is one day of revenue against snapshotted part costs.
type ProfitRow struct {
	Day       time.Time       `gorm:"column:day" json:"day"`
	Count     int64           `gorm:"column:count" json:"count"`
	Revenue   decimal.Decimal `gorm:"column:revenue" json:"revenue"`
	PartsCost decimal.Decimal `gorm:"column:parts_cost" json:"parts_cost"`
	Profit    decimal.Decimal `gorm:"-" json:"profit"`
}

// Repository runs the report aggregations. Only DONE orders with a completion
// timestamp enter either report; the range always applies to finished_at.
type Repository interface {
	DailyRevenue(ctx context.Context, branchID uuid.UUID, start, end time.Time) ([]RevenueRow, error)
	DailyProfit(ctx context.Context, branchID uuid.UUID, start, end time.Time) ([]ProfitRow, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a reports repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) DailyRevenue(ctx context.Context, branchID uuid.UUID, start, end time.Time) ([]RevenueRow, error) {
	var rows []RevenueRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT DATE(finished_at) AS day,
		       COUNT(*) AS count,
		       COALESCE(SUM(grand_total), 0) AS sum_grand,
		       COALESCE(SUM(labor_total), 0) AS sum_labor,
		       COALESCE(SUM(parts_total), 0) AS sum_parts
		FROM work_orders
		WHERE branch_id = ?
		  AND status = ?
		  AND finished_at IS NOT NULL
		  AND finished_at >= ?
		  AND finished_at < ?
		GROUP BY DATE(finished_at)
		ORDER BY day ASC`,
		branchID, enums.WorkOrderStatusDone, start, end,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// DailyProfit costs each order from its part lines' unit_cost snapshot, so
// later catalog price edits do not rewrite historical profit.
func (r *repository) DailyProfit(ctx context.Context, branchID uuid.UUID, start, end time.Time) ([]ProfitRow, error) {
	var rows []ProfitRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT DATE(w.finished_at) AS day,
		       COUNT(*) AS count,
		       COALESCE(SUM(w.grand_total), 0) AS revenue,
		       COALESCE(SUM(pc.cost), 0) AS parts_cost
		FROM work_orders w
		LEFT JOIN (
			SELECT work_order_id, SUM(qty * unit_cost) AS cost
			FROM work_order_parts
			GROUP BY work_order_id
		) pc ON pc.work_order_id = w.id
		WHERE w.branch_id = ?
		  AND w.status = ?
		  AND w.finished_at IS NOT NULL
		  AND w.finished_at >= ?
		  AND w.finished_at < ?
		GROUP BY DATE(w.finished_at)
		ORDER BY day ASC`,
		branchID, enums.WorkOrderStatusDone, start, end,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
