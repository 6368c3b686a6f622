package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/otoservis/otoservis-backend/pkg/enums"
)

// NotificationLog is the audit trail of every outbound customer message,
// including attempts that never reached the provider.
type NotificationLog struct {
	ID           uuid.UUID                 `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BranchID     uuid.UUID                 `gorm:"column:branch_id;type:uuid;not null;index"`
	CustomerID   *uuid.UUID                `gorm:"column:customer_id;type:uuid;index"`
	WorkOrderID  *uuid.UUID                `gorm:"column:work_order_id;type:uuid;index"`
	Channel      enums.NotificationChannel `gorm:"column:channel;type:notification_channel;not null"`
	Recipient    string                    `gorm:"column:recipient;not null"`
	Message      string                    `gorm:"column:message;type:text;not null"`
	Status       enums.NotificationStatus  `gorm:"column:status;type:notification_status;not null;default:PENDING"`
	ProviderSID  *string                   `gorm:"column:provider_sid"`
	ErrorMessage *string                   `gorm:"column:error_message"`
	SentAt       *time.Time                `gorm:"column:sent_at"`
	CreatedAt    time.Time                 `gorm:"column:created_at;autoCreateTime"`
}
