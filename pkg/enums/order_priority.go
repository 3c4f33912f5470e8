package enums

import "fmt"

// OrderPriority ranks how urgently a service order should be worked.
type OrderPriority string

const (
	OrderPriorityLow    OrderPriority = "low"
	OrderPriorityNormal OrderPriority = "normal"
	OrderPriorityHigh   OrderPriority = "high"
	OrderPriorityUrgent OrderPriority = "urgent"
)

var validOrderPriorities = []OrderPriority{
	OrderPriorityLow,
	OrderPriorityNormal,
	OrderPriorityHigh,
	OrderPriorityUrgent,
}

// String implements fmt.Stringer.
func (p OrderPriority) String() string {
	return string(p)
}

// IsValid reports whether the value is a known OrderPriority.
func (p OrderPriority) IsValid() bool {
	for _, candidate := range validOrderPriorities {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseOrderPriority converts raw input into an OrderPriority.
func ParseOrderPriority(value string) (OrderPriority, error) {
	for _, candidate := range validOrderPriorities {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order priority %q", value)
}
