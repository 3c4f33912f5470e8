package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jdelarosa/tallerflow-backend/pkg/db/models"
	"github.com/jdelarosa/tallerflow-backend/pkg/enums"
)

// CreateOrderInput carries the intake fields for a new service order.
type CreateOrderInput struct {
	CustomerName  string
	Device        string
	ReportedIssue string
	Priority      enums.OrderPriority
	ActorID       uuid.UUID
}

// TransitionInput moves an order along the state machine.
type TransitionInput struct {
	OrderID uuid.UUID
	To      enums.OrderState
	ActorID uuid.UUID
}

// CancelInput terminates an order from any non-terminal state.
type CancelInput struct {
	OrderID uuid.UUID
	Reason  string
	ActorID uuid.UUID
}

// AssignInput sets or clears the technician on an order. A nil
// TechnicianID unassigns.
type AssignInput struct {
	OrderID      uuid.UUID
	TechnicianID *uuid.UUID
	ActorID      uuid.UUID
}

// SetPriorityInput changes an order's priority.
type SetPriorityInput struct {
	OrderID  uuid.UUID
	Priority enums.OrderPriority
	ActorID  uuid.UUID
}

// SetQuoteInput records or revises the repair quote.
type SetQuoteInput struct {
	OrderID uuid.UUID
	Amount  decimal.Decimal
	ActorID uuid.UUID
}

// OrderView is an order annotated with its derived semaphore color as
// of the moment the view was built.
type OrderView struct {
	models.Order
	Semaphore enums.SemaphoreColor `json:"semaphore"`
	AsOf      time.Time            `json:"as_of"`
}
