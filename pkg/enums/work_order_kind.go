package enums

import "fmt"

// WorkOrderKind is the service category of a work order.
type WorkOrderKind string

const (
	WorkOrderKindCarWash       WorkOrderKind = "CAR_WASH"
	WorkOrderKindTireRepair    WorkOrderKind = "TIRE_REPAIR"
	WorkOrderKindVehicleRepair WorkOrderKind = "VEHICLE_REPAIR"
)

var validWorkOrderKinds = []WorkOrderKind{
	WorkOrderKindCarWash,
	WorkOrderKindTireRepair,
	WorkOrderKindVehicleRepair,
}

var workOrderKindLabels = map[WorkOrderKind]string{
	WorkOrderKindCarWash:       "Oto Yıkama",
	WorkOrderKindTireRepair:    "Lastik Tamir",
	WorkOrderKindVehicleRepair: "Araç Tamir",
}

// String implements fmt.Stringer.
func (k WorkOrderKind) String() string {
	return string(k)
}

// Label returns the customer-facing display name used in messages.
func (k WorkOrderKind) Label() string {
	if label, ok := workOrderKindLabels[k]; ok {
		return label
	}
	return string(k)
}

// IsValid reports whether the value is a known WorkOrderKind.
func (k WorkOrderKind) IsValid() bool {
	for _, candidate := range validWorkOrderKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseWorkOrderKind converts raw input into a WorkOrderKind.
func ParseWorkOrderKind(value string) (WorkOrderKind, error) {
	for _, candidate := range validWorkOrderKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid work order kind %q", value)
}
