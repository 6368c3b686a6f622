package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/otoservis/otoservis-backend/pkg/enums"
)

// WorkOrder is a single service job on a vehicle. GrandTotal is always
// LaborTotal + PartsTotal; PartsTotal is recomputed from the part lines.
// Worker-facing fields never expose pricing. CustomerID and VehicleID are
// nullable; the database detaches them on customer deletion so closed orders
// keep feeding the revenue reports.
type WorkOrder struct {
	ID         uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BranchID   uuid.UUID             `gorm:"column:branch_id;type:uuid;not null;index"`
	CustomerID *uuid.UUID            `gorm:"column:customer_id;type:uuid;index"`
	VehicleID  *uuid.UUID            `gorm:"column:vehicle_id;type:uuid;index"`
	Kind       enums.WorkOrderKind   `gorm:"column:kind;type:work_order_kind;not null"`
	Status     enums.WorkOrderStatus `gorm:"column:status;type:work_order_status;not null;default:WAITING"`

	PlateText string  `gorm:"column:plate_text;not null;default:''"`
	Subject   *string `gorm:"column:subject"`
	Complaint *string `gorm:"column:complaint"`
	KM        *int    `gorm:"column:km"`

	LaborTotal    decimal.Decimal `gorm:"column:labor_total;type:numeric(10,2);not null;default:0"`
	PartsTotal    decimal.Decimal `gorm:"column:parts_total;type:numeric(10,2);not null;default:0"`
	GrandTotal    decimal.Decimal `gorm:"column:grand_total;type:numeric(10,2);not null;default:0"`
	PaymentMethod *string         `gorm:"column:payment_method"`
	IsPaid        bool            `gorm:"column:is_paid;not null;default:false"`
	StaffNote     *string         `gorm:"column:staff_note"`

	AssignedToUserID   *uuid.UUID     `gorm:"column:assigned_to_user_id;type:uuid"`
	WorkerServices     pq.StringArray `gorm:"column:worker_services;type:text[];not null;default:ARRAY[]::text[]"`
	WorkerNote         *string        `gorm:"column:worker_note"`
	WorkerFinishedAt   *time.Time     `gorm:"column:worker_finished_at"`
	WorkerFinishedName *string        `gorm:"column:worker_finished_name"`

	StartedAt       *time.Time `gorm:"column:started_at"`
	FinishedAt      *time.Time `gorm:"column:finished_at;index"`
	CreatedByUserID *uuid.UUID `gorm:"column:created_by_user_id;type:uuid"`

	Parts     []WorkOrderPart `gorm:"foreignKey:WorkOrderID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime;index"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
