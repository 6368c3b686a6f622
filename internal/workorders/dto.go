package workorders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/otoservis/otoservis-backend/pkg/db/models"
	"github.com/otoservis/otoservis-backend/pkg/enums"
)

// WorkOrderDTO is the admin-facing shape of a work order, prices included.
type WorkOrderDTO struct {
	ID         uuid.UUID             `json:"id"`
	CustomerID *uuid.UUID            `json:"customer_id,omitempty"`
	VehicleID  *uuid.UUID            `json:"vehicle_id,omitempty"`
	Kind       enums.WorkOrderKind   `json:"kind"`
	Status     enums.WorkOrderStatus `json:"status"`
	Plate      string                `json:"plate"`
	Subject    *string               `json:"subject,omitempty"`
	Complaint  *string               `json:"complaint,omitempty"`
	KM         *int                  `json:"km,omitempty"`

	LaborTotal    decimal.Decimal `json:"labor_total"`
	PartsTotal    decimal.Decimal `json:"parts_total"`
	GrandTotal    decimal.Decimal `json:"grand_total"`
	PaymentMethod *string         `json:"payment_method,omitempty"`
	IsPaid        bool            `json:"is_paid"`
	StaffNote     *string         `json:"staff_note,omitempty"`

	AssignedToUserID   *uuid.UUID `json:"assigned_to_user_id,omitempty"`
	WorkerServices     []string   `json:"worker_services"`
	WorkerNote         *string    `json:"worker_note,omitempty"`
	WorkerFinishedAt   *time.Time `json:"worker_finished_at,omitempty"`
	WorkerFinishedName *string    `json:"worker_finished_name,omitempty"`

	StartedAt  *time.Time         `json:"started_at,omitempty"`
	FinishedAt *time.Time         `json:"finished_at,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
	Parts      []WorkOrderPartDTO `json:"parts,omitempty"`
}

// WorkOrderPartDTO is a priced part line.
type WorkOrderPartDTO struct {
	ID        uuid.UUID       `json:"id"`
	PartID    uuid.UUID       `json:"part_id"`
	Qty       decimal.Decimal `json:"qty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// WorkerOrderDTO is the shop-floor shape of a work order. It deliberately
// carries no pricing fields.
type WorkerOrderDTO struct {
	ID             uuid.UUID             `json:"id"`
	Kind           enums.WorkOrderKind   `json:"kind"`
	Status         enums.WorkOrderStatus `json:"status"`
	Plate          string                `json:"plate"`
	Subject        *string               `json:"subject,omitempty"`
	Complaint      *string               `json:"complaint,omitempty"`
	KM             *int                  `json:"km,omitempty"`
	WorkerServices []string              `json:"worker_services"`
	WorkerNote     *string               `json:"worker_note,omitempty"`
	StartedAt      *time.Time            `json:"started_at,omitempty"`
	CreatedAt      time.Time             `json:"created_at"`
}

// CreateWorkOrderRequest captures intake. Unknown plates create the customer
// and vehicle records inline, so customer fields ride along.
type CreateWorkOrderRequest struct {
	Plate         string  `json:"plate" validate:"required,min=2"`
	Kind          string  `json:"kind,omitempty"`
	Subject       *string `json:"subject,omitempty"`
	Complaint     *string `json:"complaint,omitempty"`
	KM            *string `json:"km,omitempty"`
	PaymentMethod *string `json:"payment_method,omitempty"`
	LaborTotal    string  `json:"labor_total,omitempty"`
	PartsTotal    string  `json:"parts_total,omitempty"`

	FullName     string     `json:"full_name,omitempty"`
	Phone        *string    `json:"phone,omitempty"`
	Email        *string    `json:"email,omitempty" validate:"omitempty,email"`
	VehicleBrand *string    `json:"vehicle_brand,omitempty"`
	VehicleModel *string    `json:"vehicle_model,omitempty"`
	AssignedTo   *uuid.UUID `json:"assigned_to,omitempty"`
}

// AdminEditRequest carries the fields an admin may rewrite on an open order.
type AdminEditRequest struct {
	Status        *string    `json:"status,omitempty"`
	Subject       *string    `json:"subject,omitempty"`
	Complaint     *string    `json:"complaint,omitempty"`
	KM            *string    `json:"km,omitempty"`
	PaymentMethod *string    `json:"payment_method,omitempty"`
	LaborTotal    *string    `json:"labor_total,omitempty"`
	PartsTotal    *string    `json:"parts_total,omitempty"`
	StaffNote     *string    `json:"staff_note,omitempty"`
	IsPaid        *bool      `json:"is_paid,omitempty"`
	AssignedTo    *uuid.UUID `json:"assigned_to,omitempty"`
}

// DoneRequest finalizes pricing while closing the order.
type DoneRequest struct {
	LaborTotal string `json:"labor_total,omitempty"`
	PartsTotal string `json:"parts_total,omitempty"`
}

// AttachPartRequest adds a priced part line and consumes stock.
type AttachPartRequest struct {
	PartID    uuid.UUID `json:"part_id" validate:"required"`
	Qty       string    `json:"qty,omitempty"`
	UnitPrice string    `json:"unit_price,omitempty"`
}

// WorkerActionRequest drives the shop-floor transitions.
type WorkerActionRequest struct {
	Action       string   `json:"action" validate:"required,oneof=start save_note finish"`
	Services     []string `json:"services,omitempty"`
	Note         *string  `json:"note,omitempty"`
	FinishedName string   `json:"finished_name,omitempty"`
}

// RepeatVisit describes a recent finished order on the same plate.
type RepeatVisit struct {
	OrderID    uuid.UUID `json:"order_id"`
	FinishedAt time.Time `json:"finished_at"`
	DaysAgo    int       `json:"days_ago"`
}

func toWorkOrderDTO(order *models.WorkOrder) WorkOrderDTO {
	dto := WorkOrderDTO{
		ID:                 order.ID,
		CustomerID:         order.CustomerID,
		VehicleID:          order.VehicleID,
		Kind:               order.Kind,
		Status:             order.Status,
		Plate:              order.PlateText,
		Subject:            order.Subject,
		Complaint:          order.Complaint,
		KM:                 order.KM,
		LaborTotal:         order.LaborTotal,
		PartsTotal:         order.PartsTotal,
		GrandTotal:         order.GrandTotal,
		PaymentMethod:      order.PaymentMethod,
		IsPaid:             order.IsPaid,
		StaffNote:          order.StaffNote,
		AssignedToUserID:   order.AssignedToUserID,
		WorkerServices:     order.WorkerServices,
		WorkerNote:         order.WorkerNote,
		WorkerFinishedAt:   order.WorkerFinishedAt,
		WorkerFinishedName: order.WorkerFinishedName,
		StartedAt:          order.StartedAt,
		FinishedAt:         order.FinishedAt,
		CreatedAt:          order.CreatedAt,
	}
	if dto.WorkerServices == nil {
		dto.WorkerServices = []string{}
	}
	for i := range order.Parts {
		line := &order.Parts[i]
		dto.Parts = append(dto.Parts, WorkOrderPartDTO{
			ID:        line.ID,
			PartID:    line.PartID,
			Qty:       line.Qty,
			UnitPrice: line.UnitPrice,
			LineTotal: line.LineTotal,
		})
	}
	return dto
}

func toWorkerOrderDTO(order *models.WorkOrder) WorkerOrderDTO {
	dto := WorkerOrderDTO{
		ID:             order.ID,
		Kind:           order.Kind,
		Status:         order.Status,
		Plate:          order.PlateText,
		Subject:        order.Subject,
		Complaint:      order.Complaint,
		KM:             order.KM,
		WorkerServices: order.WorkerServices,
		WorkerNote:     order.WorkerNote,
		StartedAt:      order.StartedAt,
		CreatedAt:      order.CreatedAt,
	}
	if dto.WorkerServices == nil {
		dto.WorkerServices = []string{}
	}
	return dto
}
