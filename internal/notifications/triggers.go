package notifications

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jdelarosa/tallerflow-backend/pkg/db/models"
	"github.com/jdelarosa/tallerflow-backend/pkg/enums"
	"github.com/jdelarosa/tallerflow-backend/pkg/logger"
)

var (
	coordinatorRoles      = []enums.UserRole{enums.UserRoleCoordinator}
	coordinatorAdminRoles = []enums.UserRole{enums.UserRoleCoordinator, enums.UserRoleAdmin}
	partsIntakeRoles      = []enums.UserRole{enums.UserRolePartsManager, enums.UserRoleCoordinator}
	partsManagerRoles     = []enums.UserRole{enums.UserRolePartsManager}
)

// Dispatcher maps order lifecycle events onto notification writes. Every
// path is best-effort: failures are logged and swallowed so the business
// operation that fired the event is never affected. The acting user is
// always excluded from the recipient set.
type Dispatcher struct {
	svc Service
	log *logger.Logger
}

// NewDispatcher wires the trigger catalog to the notification service.
func NewDispatcher(svc Service, log *logger.Logger) (*Dispatcher, error) {
	if svc == nil {
		return nil, fmt.Errorf("notifications service required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Dispatcher{svc: svc, log: log}, nil
}

func (d *Dispatcher) OrderCreated(ctx context.Context, order *models.Order, actorID uuid.UUID) {
	draft := Draft{
		Kind:    enums.NotificationKindOrderCreated,
		Title:   "New service order",
		Message: fmt.Sprintf("Order %s was created for %s (%s)", order.Folio, order.CustomerName, order.Device),
		OrderID: &order.ID,
	}
	d.toRoles(ctx, order, coordinatorRoles, actorID, draft)
}

func (d *Dispatcher) StateChanged(ctx context.Context, order *models.Order, previous enums.OrderState, actorID uuid.UUID) {
	draft := Draft{
		Kind:    enums.NotificationKindStateChanged,
		Title:   "Order state changed",
		Message: fmt.Sprintf("Order %s moved from %s to %s", order.Folio, previous, order.State),
		OrderID: &order.ID,
	}

	switch order.State {
	case enums.OrderStateAwaitingParts:
		d.toRoles(ctx, order, partsIntakeRoles, actorID, draft)
	case enums.OrderStateRepaired:
		d.toRoles(ctx, order, coordinatorRoles, actorID, draft)
		d.toUser(ctx, order, order.CreatedByID, actorID, draft)
	case enums.OrderStateDiagnosing, enums.OrderStateRepairing:
		if order.AssignedTechID != nil {
			d.toUser(ctx, order, *order.AssignedTechID, actorID, draft)
		}
	case enums.OrderStateReadyForPickup:
		draft.Title = "Order ready for pickup"
		draft.Message = fmt.Sprintf("Order %s is ready for customer pickup", order.Folio)
		d.toRoles(ctx, order, coordinatorRoles, actorID, draft)
		d.toUser(ctx, order, order.CreatedByID, actorID, draft)
	case enums.OrderStateDelivered:
		draft.Title = "Order delivered"
		draft.Message = fmt.Sprintf("Order %s was delivered", order.Folio)
		d.toRoles(ctx, order, coordinatorRoles, actorID, draft)
	case enums.OrderStateCanceled:
		// The dedicated cancel trigger owns this event.
	}
}

func (d *Dispatcher) Canceled(ctx context.Context, order *models.Order, previous enums.OrderState, actorID uuid.UUID) {
	message := fmt.Sprintf("Order %s was canceled while %s", order.Folio, previous)
	if order.CancelReason != nil && *order.CancelReason != "" {
		message = fmt.Sprintf("%s: %s", message, *order.CancelReason)
	}
	draft := Draft{
		Kind:    enums.NotificationKindOrderCanceled,
		Title:   "Order canceled",
		Message: message,
		OrderID: &order.ID,
	}
	if order.AssignedTechID != nil {
		d.toUser(ctx, order, *order.AssignedTechID, actorID, draft)
	}
	d.toRoles(ctx, order, coordinatorAdminRoles, actorID, draft)

	if previous == enums.OrderStateAwaitingParts {
		released := Draft{
			Kind:    enums.NotificationKindPartsReleased,
			Title:   "Parts no longer required",
			Message: fmt.Sprintf("Order %s was canceled; its pending parts are no longer required", order.Folio),
			OrderID: &order.ID,
		}
		d.toRoles(ctx, order, partsManagerRoles, actorID, released)
	}
}

func (d *Dispatcher) Reassigned(ctx context.Context, order *models.Order, previousTech *uuid.UUID, actorID uuid.UUID) {
	if previousTech != nil {
		d.toUser(ctx, order, *previousTech, actorID, Draft{
			Kind:    enums.NotificationKindTechnicianUnassigned,
			Title:   "Order unassigned",
			Message: fmt.Sprintf("You are no longer assigned to order %s", order.Folio),
			OrderID: &order.ID,
		})
	}
	if order.AssignedTechID != nil {
		d.toUser(ctx, order, *order.AssignedTechID, actorID, Draft{
			Kind:    enums.NotificationKindTechnicianAssigned,
			Title:   "Order assigned",
			Message: fmt.Sprintf("You were assigned order %s (%s)", order.Folio, order.Device),
			OrderID: &order.ID,
		})
	}
}

func (d *Dispatcher) PriorityEscalated(ctx context.Context, order *models.Order, actorID uuid.UUID) {
	if order.AssignedTechID == nil {
		return
	}
	d.toUser(ctx, order, *order.AssignedTechID, actorID, Draft{
		Kind:     enums.NotificationKindPriorityEscalated,
		Title:    "Order escalated to urgent",
		Message:  fmt.Sprintf("Order %s was escalated to urgent priority", order.Folio),
		Priority: enums.NotificationPriorityUrgent,
		OrderID:  &order.ID,
	})
}

func (d *Dispatcher) QuoteChanged(ctx context.Context, order *models.Order, previous *decimal.Decimal, actorID uuid.UUID) {
	draft := Draft{
		Kind:    enums.NotificationKindQuoteChanged,
		Title:   "Quote updated",
		Message: fmt.Sprintf("Quote for order %s changed from %s to %s", order.Folio, formatAmount(previous), formatAmount(order.QuoteAmount)),
		OrderID: &order.ID,
	}
	d.toRoles(ctx, order, coordinatorAdminRoles, actorID, draft)
}

func (d *Dispatcher) toRoles(ctx context.Context, order *models.Order, roles []enums.UserRole, actorID uuid.UUID, draft Draft) {
	exclude := actorID
	if _, err := d.svc.NotifyByRole(ctx, roles, &exclude, draft); err != nil {
		d.logDispatchFailure(ctx, order, draft, err)
	}
}

func (d *Dispatcher) toUser(ctx context.Context, order *models.Order, recipientID, actorID uuid.UUID, draft Draft) {
	if recipientID == uuid.Nil || recipientID == actorID {
		return
	}
	if err := d.svc.Create(ctx, recipientID, draft); err != nil {
		d.logDispatchFailure(ctx, order, draft, err)
	}
}

func (d *Dispatcher) logDispatchFailure(ctx context.Context, order *models.Order, draft Draft, err error) {
	ctx = d.log.WithOrderID(ctx, order.ID.String())
	ctx = d.log.WithFolio(ctx, order.Folio)
	ctx = d.log.WithField(ctx, "notification_kind", string(draft.Kind))
	d.log.Error(ctx, "notification dispatch failed", err)
}

func formatAmount(amount *decimal.Decimal) string {
	if amount == nil {
		return "unquoted"
	}
	return "$" + amount.StringFixed(2)
}
