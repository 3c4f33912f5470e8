package orders

import (
	"fmt"

	"github.com/jdelarosa/tallerflow-backend/pkg/enums"
	pkgerrors "github.com/jdelarosa/tallerflow-backend/pkg/errors"
)

// allowedTransitions is the fixed adjacency table of the order state
// machine. Any edge not listed is rejected. Canceled is reachable from
// every non-terminal state; terminal states have no outgoing edges.
var allowedTransitions = map[enums.OrderState][]enums.OrderState{
	enums.OrderStateReceived: {
		enums.OrderStateDiagnosing,
		enums.OrderStateCanceled,
	},
	enums.OrderStateDiagnosing: {
		enums.OrderStateAwaitingParts,
		enums.OrderStateQuotePending,
		enums.OrderStateRepairing,
		enums.OrderStateCanceled,
	},
	enums.OrderStateAwaitingParts: {
		enums.OrderStateRepairing,
		enums.OrderStateCanceled,
	},
	enums.OrderStateQuotePending: {
		enums.OrderStateAwaitingParts,
		enums.OrderStateRepairing,
		enums.OrderStateCanceled,
	},
	enums.OrderStateRepairing: {
		enums.OrderStateAwaitingParts,
		enums.OrderStateRepaired,
		enums.OrderStateCanceled,
	},
	enums.OrderStateRepaired: {
		enums.OrderStateReadyForPickup,
		enums.OrderStateCanceled,
	},
	enums.OrderStateReadyForPickup: {
		enums.OrderStateDelivered,
		enums.OrderStateCanceled,
	},
	enums.OrderStateDelivered: {},
	enums.OrderStateCanceled:  {},
}

// CanTransition reports whether the state machine permits moving an
// order from one state to another.
func CanTransition(from, to enums.OrderState) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidateTransition returns a state-conflict error describing the
// rejected edge when the transition is not permitted.
func ValidateTransition(from, to enums.OrderState) error {
	if from == to {
		return pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("order is already %s", from))
	}
	if from.IsTerminal() {
		return pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("order is %s and can no longer change state", from))
	}
	if !CanTransition(from, to) {
		return pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot move order from %s to %s", from, to))
	}
	return nil
}
