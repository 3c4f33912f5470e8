package alerts

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/jdelarosa/tallerflow-backend/internal/notifications"
	"github.com/jdelarosa/tallerflow-backend/internal/orders"
	"github.com/jdelarosa/tallerflow-backend/pkg/db/models"
	"github.com/jdelarosa/tallerflow-backend/pkg/enums"
	"github.com/jdelarosa/tallerflow-backend/pkg/logger"
	"github.com/jdelarosa/tallerflow-backend/pkg/metrics"
)

var alertEscalationRoles = []enums.UserRole{enums.UserRoleCoordinator, enums.UserRoleAdmin}

// Summary aggregates the outcome of one sweep.
type Summary struct {
	RedAlerts            int `json:"red_alerts"`
	YellowAlerts         int `json:"yellow_alerts"`
	NotificationsCreated int `json:"notifications_created"`
	Errors               int `json:"errors"`
}

// orderSource is the slice of the order store the scanner reads.
type orderSource interface {
	FindActive(ctx context.Context) ([]models.Order, error)
}

// dedupChecker answers whether an unread alert of a kind already exists
// for an order.
type dedupChecker interface {
	HasUnreadForOrder(ctx context.Context, orderID uuid.UUID, kind enums.NotificationKind) (bool, error)
}

// Scanner sweeps active orders and raises red/yellow alert
// notifications. Orders are processed sequentially; per-order failures
// are tallied and never halt the sweep.
type Scanner struct {
	orders        orderSource
	notifications notifications.Service
	dedup         dedupChecker
	thresholds    orders.SemaphoreThresholds
	metrics       *metrics.AlertScanMetrics
	log           *logger.Logger
	now           func() time.Time
}

// NewScanner wires the alert sweep. Metrics may be nil; the clock is
// injectable for tests, pass nil to use time.Now.
func NewScanner(source orderSource, svc notifications.Service, dedup dedupChecker, thresholds orders.SemaphoreThresholds, scanMetrics *metrics.AlertScanMetrics, log *logger.Logger, now func() time.Time) (*Scanner, error) {
	if source == nil {
		return nil, fmt.Errorf("order source required")
	}
	if svc == nil {
		return nil, fmt.Errorf("notifications service required")
	}
	if dedup == nil {
		return nil, fmt.Errorf("dedup checker required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if now == nil {
		now = time.Now
	}
	return &Scanner{
		orders:        source,
		notifications: svc,
		dedup:         dedup,
		thresholds:    thresholds,
		metrics:       scanMetrics,
		log:           log,
		now:           now,
	}, nil
}

// Scan runs one sweep over all non-terminal orders.
func (s *Scanner) Scan(ctx context.Context) (Summary, error) {
	active, err := s.orders.FindActive(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("loading active orders: %w", err)
	}

	summary := Summary{}
	var sweepErrs error
	now := s.now()
	for i := range active {
		order := &active[i]
		kind, ok := s.candidate(order, now)
		if !ok {
			continue
		}

		created, err := s.raise(ctx, order, kind, now)
		if err != nil {
			summary.Errors++
			sweepErrs = multierr.Append(sweepErrs, fmt.Errorf("order %s: %w", order.Folio, err))
			orderCtx := s.log.WithOrderID(ctx, order.ID.String())
			orderCtx = s.log.WithFolio(orderCtx, order.Folio)
			s.log.Error(orderCtx, "alert dispatch failed", err)
			continue
		}

		switch kind {
		case enums.NotificationKindAlertRed:
			summary.RedAlerts++
		case enums.NotificationKindAlertYellow:
			summary.YellowAlerts++
		}
		summary.NotificationsCreated += created
	}

	s.metrics.AddAlerts(string(enums.SemaphoreRed), summary.RedAlerts)
	s.metrics.AddAlerts(string(enums.SemaphoreYellow), summary.YellowAlerts)
	s.metrics.AddNotifications(summary.NotificationsCreated)
	s.metrics.AddErrors(summary.Errors)

	if sweepErrs != nil {
		s.log.Error(ctx, "alert sweep completed with failures", sweepErrs)
	}
	return summary, nil
}

// candidate computes at most one alert kind per order.
func (s *Scanner) candidate(order *models.Order, now time.Time) (enums.NotificationKind, bool) {
	switch order.State {
	case enums.OrderStateReadyForPickup:
		if order.RepairedAt != nil && now.Sub(*order.RepairedAt) > s.thresholds.RedAfter {
			return enums.NotificationKindAlertRed, true
		}
	case enums.OrderStateDiagnosing, enums.OrderStateQuotePending:
		if now.Sub(order.ReceivedAt) > s.thresholds.YellowAfter {
			return enums.NotificationKindAlertYellow, true
		}
	}
	return "", false
}

func (s *Scanner) raise(ctx context.Context, order *models.Order, kind enums.NotificationKind, now time.Time) (int, error) {
	// Dedup: an unread alert of this kind for this order means a prior
	// sweep already notified and nobody has acted on it yet.
	exists, err := s.dedup.HasUnreadForOrder(ctx, order.ID, kind)
	if err != nil {
		return 0, fmt.Errorf("checking existing alert: %w", err)
	}
	if exists {
		return 0, nil
	}

	draft := s.draftFor(order, kind, now)
	created, err := s.notifications.NotifyByRole(ctx, alertEscalationRoles, nil, draft)
	if err != nil {
		return 0, fmt.Errorf("notifying escalation roles: %w", err)
	}

	if kind == enums.NotificationKindAlertYellow && order.AssignedTechID != nil {
		extra, err := s.notifications.NotifyUsers(ctx, []uuid.UUID{*order.AssignedTechID}, nil, draft)
		if err != nil {
			return created, fmt.Errorf("notifying assigned technician: %w", err)
		}
		created += extra
	}
	return created, nil
}

func (s *Scanner) draftFor(order *models.Order, kind enums.NotificationKind, now time.Time) notifications.Draft {
	if kind == enums.NotificationKindAlertRed {
		days := int(now.Sub(*order.RepairedAt).Hours() / 24)
		return notifications.Draft{
			Kind:     kind,
			Title:    "Order overdue for pickup",
			Message:  fmt.Sprintf("Order %s has been ready for pickup for %d days", order.Folio, days),
			Priority: enums.NotificationPriorityHigh,
			OrderID:  &order.ID,
		}
	}
	hours := int(now.Sub(order.ReceivedAt).Hours())
	return notifications.Draft{
		Kind:     kind,
		Title:    "Order stalled",
		Message:  fmt.Sprintf("Order %s has been %s for %d hours", order.Folio, order.State, hours),
		Priority: enums.NotificationPriorityNormal,
		OrderID:  &order.ID,
	}
}
