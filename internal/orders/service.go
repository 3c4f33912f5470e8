package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/jdelarosa/tallerflow-backend/pkg/config"
	"github.com/jdelarosa/tallerflow-backend/pkg/db"
	"github.com/jdelarosa/tallerflow-backend/pkg/db/models"
	"github.com/jdelarosa/tallerflow-backend/pkg/enums"
	pkgerrors "github.com/jdelarosa/tallerflow-backend/pkg/errors"
)

const folioUniqueIndex = "idx_orders_folio"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Dispatcher fans lifecycle events out to the notification pipeline.
// Implementations must never fail the calling operation; delivery is
// best-effort.
type Dispatcher interface {
	OrderCreated(ctx context.Context, order *models.Order, actorID uuid.UUID)
	StateChanged(ctx context.Context, order *models.Order, previous enums.OrderState, actorID uuid.UUID)
	Canceled(ctx context.Context, order *models.Order, previous enums.OrderState, actorID uuid.UUID)
	Reassigned(ctx context.Context, order *models.Order, previousTech *uuid.UUID, actorID uuid.UUID)
	PriorityEscalated(ctx context.Context, order *models.Order, actorID uuid.UUID)
	QuoteChanged(ctx context.Context, order *models.Order, previous *decimal.Decimal, actorID uuid.UUID)
}

// Service defines the order lifecycle operations.
type Service interface {
	Create(ctx context.Context, input CreateOrderInput) (*models.Order, error)
	Transition(ctx context.Context, input TransitionInput) (*models.Order, error)
	Cancel(ctx context.Context, input CancelInput) (*models.Order, error)
	Assign(ctx context.Context, input AssignInput) (*models.Order, error)
	EscalatePriority(ctx context.Context, input SetPriorityInput) (*models.Order, error)
	UpdateQuote(ctx context.Context, input SetQuoteInput) (*models.Order, error)
	Get(ctx context.Context, id uuid.UUID) (*OrderView, error)
	ListActive(ctx context.Context) ([]OrderView, error)
}

type service struct {
	repo       Repository
	tx         txRunner
	dispatcher Dispatcher
	folio      config.FolioConfig
	thresholds SemaphoreThresholds
	now        func() time.Time
}

// NewService builds the order service with its collaborators. The clock
// is injectable for tests; pass nil to use time.Now.
func NewService(repo Repository, tx txRunner, dispatcher Dispatcher, folio config.FolioConfig, thresholds SemaphoreThresholds, now func() time.Time) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if dispatcher == nil {
		return nil, fmt.Errorf("notification dispatcher required")
	}
	if folio.MaxRetries < 1 {
		return nil, fmt.Errorf("folio max retries must be at least 1")
	}
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:       repo,
		tx:         tx,
		dispatcher: dispatcher,
		folio:      folio,
		thresholds: thresholds,
		now:        now,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	if input.CustomerName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer name required")
	}
	if input.Device == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "device required")
	}
	if input.ReportedIssue == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reported issue required")
	}
	if input.ActorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	priority := input.Priority
	if priority == "" {
		priority = enums.OrderPriorityNormal
	}
	if !priority.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid priority")
	}

	now := s.now()
	bucket := CurrentFolioBucket(now)

	backoff := retry.WithMaxRetries(uint64(s.folio.MaxRetries-1),
		retry.WithJitter(s.folio.BackoffJitter,
			retry.NewExponential(s.folio.BackoffBase)))

	var (
		created  *models.Order
		attempts int
		conflict bool
	)
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempts++
		conflict = false

		// The folio is recomputed from scratch on every attempt so a
		// concurrent insert bumps us past the collided sequence.
		last, err := s.repo.HighestFolio(ctx, bucket.Prefix())
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load highest folio")
		}
		folio, err := NextFolio(last, bucket)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "compute next folio")
		}

		order := &models.Order{
			ID:            uuid.New(),
			Folio:         folio,
			State:         enums.OrderStateReceived,
			Priority:      priority,
			CustomerName:  input.CustomerName,
			Device:        input.Device,
			ReportedIssue: input.ReportedIssue,
			CreatedByID:   input.ActorID,
			ReceivedAt:    now,
		}
		if _, err := s.repo.Create(ctx, order); err != nil {
			if db.IsUniqueViolation(err, folioUniqueIndex) {
				conflict = true
				return retry.RetryableError(err)
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert order")
		}
		created = order
		return nil
	})
	if err != nil {
		if conflict {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict,
				&FolioGenerationError{Attempts: attempts}, "allocate folio")
		}
		return nil, err
	}

	s.dispatcher.OrderCreated(ctx, created, input.ActorID)
	return created, nil
}

func (s *service) Transition(ctx context.Context, input TransitionInput) (*models.Order, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if !input.To.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid target state")
	}
	if input.ActorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	var (
		updated  *models.Order
		previous enums.OrderState
	)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindByID(ctx, input.OrderID)
		if err != nil {
			return classifyLoadError(err)
		}
		previous = order.State
		if err := ValidateTransition(order.State, input.To); err != nil {
			return err
		}

		now := s.now()
		updates := map[string]any{"state": input.To}
		applyEntryTimestamp(order, input.To, now, updates)
		if err := repo.Update(ctx, order.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order state")
		}
		order.State = input.To
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.dispatcher.StateChanged(ctx, updated, previous, input.ActorID)
	return updated, nil
}

func (s *service) Cancel(ctx context.Context, input CancelInput) (*models.Order, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.ActorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	var (
		updated  *models.Order
		previous enums.OrderState
	)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindByID(ctx, input.OrderID)
		if err != nil {
			return classifyLoadError(err)
		}
		previous = order.State
		if err := ValidateTransition(order.State, enums.OrderStateCanceled); err != nil {
			return err
		}

		now := s.now()
		updates := map[string]any{
			"state":       enums.OrderStateCanceled,
			"canceled_at": now,
		}
		if input.Reason != "" {
			updates["cancel_reason"] = input.Reason
			reason := input.Reason
			order.CancelReason = &reason
		}
		if err := repo.Update(ctx, order.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel order")
		}
		order.State = enums.OrderStateCanceled
		order.CanceledAt = &now
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.dispatcher.Canceled(ctx, updated, previous, input.ActorID)
	return updated, nil
}

func (s *service) Assign(ctx context.Context, input AssignInput) (*models.Order, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.ActorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	var (
		updated      *models.Order
		previousTech *uuid.UUID
		changed      bool
	)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindByID(ctx, input.OrderID)
		if err != nil {
			return classifyLoadError(err)
		}
		if order.State.IsTerminal() {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("order is %s and can no longer be reassigned", order.State))
		}
		if uuidPtrEqual(order.AssignedTechID, input.TechnicianID) {
			updated = order
			return nil
		}
		previousTech = order.AssignedTechID

		if err := repo.Update(ctx, order.ID, map[string]any{"assigned_tech_id": input.TechnicianID}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "assign technician")
		}
		order.AssignedTechID = input.TechnicianID
		updated = order
		changed = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.dispatcher.Reassigned(ctx, updated, previousTech, input.ActorID)
	}
	return updated, nil
}

func (s *service) EscalatePriority(ctx context.Context, input SetPriorityInput) (*models.Order, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if !input.Priority.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid priority")
	}
	if input.ActorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	var (
		updated *models.Order
		changed bool
	)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindByID(ctx, input.OrderID)
		if err != nil {
			return classifyLoadError(err)
		}
		if order.State.IsTerminal() {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("order is %s and its priority can no longer change", order.State))
		}
		if order.Priority == input.Priority {
			updated = order
			return nil
		}

		if err := repo.Update(ctx, order.ID, map[string]any{"priority": input.Priority}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update priority")
		}
		order.Priority = input.Priority
		updated = order
		changed = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed && updated.Priority == enums.OrderPriorityUrgent {
		s.dispatcher.PriorityEscalated(ctx, updated, input.ActorID)
	}
	return updated, nil
}

func (s *service) UpdateQuote(ctx context.Context, input SetQuoteInput) (*models.Order, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.Amount.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quote amount cannot be negative")
	}
	if input.ActorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	var (
		updated  *models.Order
		previous *decimal.Decimal
	)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindByID(ctx, input.OrderID)
		if err != nil {
			return classifyLoadError(err)
		}
		if order.State.IsTerminal() {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("order is %s and can no longer be quoted", order.State))
		}
		previous = order.QuoteAmount

		now := s.now()
		amount := input.Amount
		updates := map[string]any{
			"quote_amount": amount,
			"quoted_at":    now,
		}
		if err := repo.Update(ctx, order.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update quote")
		}
		order.QuoteAmount = &amount
		order.QuotedAt = &now
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.dispatcher.QuoteChanged(ctx, updated, previous, input.ActorID)
	return updated, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*OrderView, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, classifyLoadError(err)
	}
	now := s.now()
	return &OrderView{
		Order:     *order,
		Semaphore: DeriveSemaphore(order, now, s.thresholds),
		AsOf:      now,
	}, nil
}

func (s *service) ListActive(ctx context.Context) ([]OrderView, error) {
	orders, err := s.repo.FindActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list active orders")
	}
	now := s.now()
	views := make([]OrderView, 0, len(orders))
	for i := range orders {
		views = append(views, OrderView{
			Order:     orders[i],
			Semaphore: DeriveSemaphore(&orders[i], now, s.thresholds),
			AsOf:      now,
		})
	}
	return views, nil
}

// applyEntryTimestamp stamps the milestone column for states that carry
// one. Timestamps are only ever set forward, never cleared.
func applyEntryTimestamp(order *models.Order, to enums.OrderState, now time.Time, updates map[string]any) {
	switch to {
	case enums.OrderStateDiagnosing:
		if order.DiagnosedAt == nil {
			updates["diagnosed_at"] = now
			order.DiagnosedAt = &now
		}
	case enums.OrderStateRepaired:
		updates["repaired_at"] = now
		order.RepairedAt = &now
	case enums.OrderStateDelivered:
		updates["delivered_at"] = now
		order.DeliveredAt = &now
	case enums.OrderStateCanceled:
		updates["canceled_at"] = now
		order.CanceledAt = &now
	}
}

func classifyLoadError(err error) error {
	if err == gorm.ErrRecordNotFound {
		return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
}

func uuidPtrEqual(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
