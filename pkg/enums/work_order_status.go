package enums

import "fmt"

// WorkOrderStatus tracks a work order through intake, shop floor, and delivery.
type WorkOrderStatus string

const (
	WorkOrderStatusWaiting      WorkOrderStatus = "WAITING"
	WorkOrderStatusInProgress   WorkOrderStatus = "IN_PROGRESS"
	WorkOrderStatusWaitingAdmin WorkOrderStatus = "WAITING_ADMIN"
	WorkOrderStatusDone         WorkOrderStatus = "DONE"
)

var validWorkOrderStatuses = []WorkOrderStatus{
	WorkOrderStatusWaiting,
	WorkOrderStatusInProgress,
	WorkOrderStatusWaitingAdmin,
	WorkOrderStatusDone,
}

// String implements fmt.Stringer.
func (s WorkOrderStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known WorkOrderStatus.
func (s WorkOrderStatus) IsValid() bool {
	for _, candidate := range validWorkOrderStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further worker action applies.
func (s WorkOrderStatus) IsTerminal() bool {
	return s == WorkOrderStatusDone
}

// ParseWorkOrderStatus converts raw input into a WorkOrderStatus.
func ParseWorkOrderStatus(value string) (WorkOrderStatus, error) {
	for _, candidate := range validWorkOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid work order status %q", value)
}
