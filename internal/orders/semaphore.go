package orders

import (
	"time"

	"github.com/jdelarosa/tallerflow-backend/pkg/config"
	"github.com/jdelarosa/tallerflow-backend/pkg/db/models"
	"github.com/jdelarosa/tallerflow-backend/pkg/enums"
)

// SemaphoreThresholds controls how order age maps onto semaphore colors.
type SemaphoreThresholds struct {
	// RedAfter is measured against repaired_at while the order sits in
	// ready_for_pickup waiting for the customer.
	RedAfter time.Duration
	// YellowAfter is measured against received_at while the order is
	// stuck in diagnosing or quote_pending.
	YellowAfter time.Duration
	// RecentFor is the window after received_at during which an order
	// shows blue instead of green.
	RecentFor time.Duration
}

// ThresholdsFromConfig lifts the alert section of the runtime config
// into semaphore thresholds.
func ThresholdsFromConfig(cfg config.AlertsConfig) SemaphoreThresholds {
	return SemaphoreThresholds{
		RedAfter:    cfg.RedAfter,
		YellowAfter: cfg.YellowAfter,
		RecentFor:   cfg.RecentFor,
	}
}

// DeriveSemaphore computes the display color for an order at a given
// instant. It is a pure function of the order row, the clock, and the
// thresholds; rules are evaluated top to bottom and the first match
// wins.
func DeriveSemaphore(order *models.Order, now time.Time, t SemaphoreThresholds) enums.SemaphoreColor {
	if order.State.IsTerminal() {
		return enums.SemaphoreNone
	}
	if order.State == enums.OrderStateReadyForPickup &&
		order.RepairedAt != nil && now.Sub(*order.RepairedAt) > t.RedAfter {
		return enums.SemaphoreRed
	}
	if order.State == enums.OrderStateAwaitingParts {
		return enums.SemaphoreOrange
	}
	if (order.State == enums.OrderStateDiagnosing || order.State == enums.OrderStateQuotePending) &&
		now.Sub(order.ReceivedAt) > t.YellowAfter {
		return enums.SemaphoreYellow
	}
	if now.Sub(order.ReceivedAt) < t.RecentFor {
		return enums.SemaphoreBlue
	}
	return enums.SemaphoreGreen
}
