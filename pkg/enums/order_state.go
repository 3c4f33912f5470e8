package enums

import "fmt"

// OrderState tracks the lifecycle of a service order.
type OrderState string

const (
	OrderStateReceived       OrderState = "received"
	OrderStateDiagnosing     OrderState = "diagnosing"
	OrderStateAwaitingParts  OrderState = "awaiting_parts"
	OrderStateQuotePending   OrderState = "quote_pending"
	OrderStateRepairing      OrderState = "repairing"
	OrderStateRepaired       OrderState = "repaired"
	OrderStateReadyForPickup OrderState = "ready_for_pickup"
	OrderStateDelivered      OrderState = "delivered"
	OrderStateCanceled       OrderState = "canceled"
)

var validOrderStates = []OrderState{
	OrderStateReceived,
	OrderStateDiagnosing,
	OrderStateAwaitingParts,
	OrderStateQuotePending,
	OrderStateRepairing,
	OrderStateRepaired,
	OrderStateReadyForPickup,
	OrderStateDelivered,
	OrderStateCanceled,
}

// String implements fmt.Stringer.
func (s OrderState) String() string {
	return string(s)
}

// IsValid reports whether the value is a known OrderState.
func (s OrderState) IsValid() bool {
	for _, candidate := range validOrderStates {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the state ends the order lifecycle.
func (s OrderState) IsTerminal() bool {
	return s == OrderStateDelivered || s == OrderStateCanceled
}

// ParseOrderState converts raw input into an OrderState.
func ParseOrderState(value string) (OrderState, error) {
	for _, candidate := range validOrderStates {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order state %q", value)
}

// NonTerminalOrderStates returns every state still subject to the alert sweep.
func NonTerminalOrderStates() []OrderState {
	states := make([]OrderState, 0, len(validOrderStates))
	for _, candidate := range validOrderStates {
		if candidate.IsTerminal() {
			continue
		}
		states = append(states, candidate)
	}
	return states
}
