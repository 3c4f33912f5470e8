package notifications

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jdelarosa/tallerflow-backend/pkg/db/models"
	"github.com/jdelarosa/tallerflow-backend/pkg/enums"
	"github.com/jdelarosa/tallerflow-backend/pkg/logger"
)

type roleCall struct {
	roles   []enums.UserRole
	exclude *uuid.UUID
	draft   Draft
}

type userCall struct {
	recipient uuid.UUID
	draft     Draft
}

type fakeNotifier struct {
	roleCalls []roleCall
	userCalls []userCall
	err       error
}

func (f *fakeNotifier) Create(ctx context.Context, recipientID uuid.UUID, draft Draft) error {
	f.userCalls = append(f.userCalls, userCall{recipient: recipientID, draft: draft})
	return f.err
}

func (f *fakeNotifier) NotifyUsers(ctx context.Context, userIDs []uuid.UUID, exclude *uuid.UUID, draft Draft) (int, error) {
	for _, id := range userIDs {
		f.userCalls = append(f.userCalls, userCall{recipient: id, draft: draft})
	}
	return len(userIDs), f.err
}

func (f *fakeNotifier) NotifyByRole(ctx context.Context, roles []enums.UserRole, exclude *uuid.UUID, draft Draft) (int, error) {
	f.roleCalls = append(f.roleCalls, roleCall{roles: roles, exclude: exclude, draft: draft})
	return 1, f.err
}

func (f *fakeNotifier) List(ctx context.Context, params ListParams) (*ListResult, error) {
	return nil, nil
}

func (f *fakeNotifier) MarkRead(ctx context.Context, recipientID, notificationID uuid.UUID) error {
	return nil
}

func (f *fakeNotifier) MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	return 0, nil
}

func (f *fakeNotifier) CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	return 0, nil
}

func newTestDispatcher(t *testing.T, svc Service) *Dispatcher {
	t.Helper()
	log := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	d, err := NewDispatcher(svc, log)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return d
}

func sampleOrder(state enums.OrderState) *models.Order {
	return &models.Order{
		ID:           uuid.New(),
		Folio:        "OS-2026-08-014",
		State:        state,
		CustomerName: "Ana Torres",
		Device:       "laptop",
		CreatedByID:  uuid.New(),
	}
}

func rolesEqual(a []enums.UserRole, b ...enums.UserRole) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestDispatcherOrderCreatedTargetsCoordinators(t *testing.T) {
	svc := &fakeNotifier{}
	d := newTestDispatcher(t, svc)
	order := sampleOrder(enums.OrderStateReceived)
	actor := uuid.New()

	d.OrderCreated(context.Background(), order, actor)

	if len(svc.roleCalls) != 1 {
		t.Fatalf("expected 1 role dispatch, got %d", len(svc.roleCalls))
	}
	call := svc.roleCalls[0]
	if !rolesEqual(call.roles, enums.UserRoleCoordinator) {
		t.Fatalf("expected coordinator role, got %v", call.roles)
	}
	if call.exclude == nil || *call.exclude != actor {
		t.Fatal("expected creator excluded")
	}
	if call.draft.Kind != enums.NotificationKindOrderCreated {
		t.Fatalf("expected order_created kind, got %s", call.draft.Kind)
	}
	if !strings.Contains(call.draft.Message, order.Folio) {
		t.Fatal("expected folio in message")
	}
}

func TestDispatcherStateChangedRouting(t *testing.T) {
	tech := uuid.New()

	t.Run("awaiting parts goes to parts managers and coordinators", func(t *testing.T) {
		svc := &fakeNotifier{}
		d := newTestDispatcher(t, svc)
		order := sampleOrder(enums.OrderStateAwaitingParts)

		d.StateChanged(context.Background(), order, enums.OrderStateDiagnosing, uuid.New())

		if len(svc.roleCalls) != 1 {
			t.Fatalf("expected 1 role dispatch, got %d", len(svc.roleCalls))
		}
		if !rolesEqual(svc.roleCalls[0].roles, enums.UserRolePartsManager, enums.UserRoleCoordinator) {
			t.Fatalf("unexpected roles %v", svc.roleCalls[0].roles)
		}
	})

	t.Run("repaired notifies coordinators and creator", func(t *testing.T) {
		svc := &fakeNotifier{}
		d := newTestDispatcher(t, svc)
		order := sampleOrder(enums.OrderStateRepaired)

		d.StateChanged(context.Background(), order, enums.OrderStateRepairing, uuid.New())

		if len(svc.roleCalls) != 1 || !rolesEqual(svc.roleCalls[0].roles, enums.UserRoleCoordinator) {
			t.Fatalf("expected coordinator dispatch, got %+v", svc.roleCalls)
		}
		if len(svc.userCalls) != 1 || svc.userCalls[0].recipient != order.CreatedByID {
			t.Fatalf("expected creator notified, got %+v", svc.userCalls)
		}
	})

	t.Run("repaired by creator skips the direct message", func(t *testing.T) {
		svc := &fakeNotifier{}
		d := newTestDispatcher(t, svc)
		order := sampleOrder(enums.OrderStateRepaired)

		d.StateChanged(context.Background(), order, enums.OrderStateRepairing, order.CreatedByID)

		if len(svc.userCalls) != 0 {
			t.Fatalf("expected no direct message to the acting creator, got %+v", svc.userCalls)
		}
	})

	t.Run("repairing targets assigned technician only", func(t *testing.T) {
		svc := &fakeNotifier{}
		d := newTestDispatcher(t, svc)
		order := sampleOrder(enums.OrderStateRepairing)
		order.AssignedTechID = &tech

		d.StateChanged(context.Background(), order, enums.OrderStateAwaitingParts, uuid.New())

		if len(svc.roleCalls) != 0 {
			t.Fatalf("expected no role dispatch, got %+v", svc.roleCalls)
		}
		if len(svc.userCalls) != 1 || svc.userCalls[0].recipient != tech {
			t.Fatalf("expected technician notified, got %+v", svc.userCalls)
		}
	})

	t.Run("repairing without technician is a no-op", func(t *testing.T) {
		svc := &fakeNotifier{}
		d := newTestDispatcher(t, svc)
		order := sampleOrder(enums.OrderStateRepairing)

		d.StateChanged(context.Background(), order, enums.OrderStateAwaitingParts, uuid.New())

		if len(svc.roleCalls) != 0 || len(svc.userCalls) != 0 {
			t.Fatal("expected no dispatches")
		}
	})

	t.Run("technician acting on own order is excluded", func(t *testing.T) {
		svc := &fakeNotifier{}
		d := newTestDispatcher(t, svc)
		order := sampleOrder(enums.OrderStateDiagnosing)
		order.AssignedTechID = &tech

		d.StateChanged(context.Background(), order, enums.OrderStateReceived, tech)

		if len(svc.userCalls) != 0 {
			t.Fatalf("expected actor excluded, got %+v", svc.userCalls)
		}
	})

	t.Run("generic transition to canceled is a no-op", func(t *testing.T) {
		svc := &fakeNotifier{}
		d := newTestDispatcher(t, svc)
		order := sampleOrder(enums.OrderStateCanceled)

		d.StateChanged(context.Background(), order, enums.OrderStateReceived, uuid.New())

		if len(svc.roleCalls) != 0 || len(svc.userCalls) != 0 {
			t.Fatal("expected the dedicated cancel trigger to own this event")
		}
	})
}

func TestDispatcherCanceledAddsPartsReleasedBranch(t *testing.T) {
	tech := uuid.New()
	svc := &fakeNotifier{}
	d := newTestDispatcher(t, svc)
	order := sampleOrder(enums.OrderStateCanceled)
	order.AssignedTechID = &tech

	d.Canceled(context.Background(), order, enums.OrderStateAwaitingParts, uuid.New())

	if len(svc.userCalls) != 1 || svc.userCalls[0].recipient != tech {
		t.Fatalf("expected technician notified, got %+v", svc.userCalls)
	}
	if len(svc.roleCalls) != 2 {
		t.Fatalf("expected coordinator/admin plus parts manager dispatch, got %d", len(svc.roleCalls))
	}
	if !rolesEqual(svc.roleCalls[0].roles, enums.UserRoleCoordinator, enums.UserRoleAdmin) {
		t.Fatalf("unexpected first roles %v", svc.roleCalls[0].roles)
	}
	released := svc.roleCalls[1]
	if !rolesEqual(released.roles, enums.UserRolePartsManager) {
		t.Fatalf("unexpected parts roles %v", released.roles)
	}
	if released.draft.Kind != enums.NotificationKindPartsReleased {
		t.Fatalf("expected parts_released kind, got %s", released.draft.Kind)
	}
}

func TestDispatcherCanceledFromOtherStateSkipsPartsBranch(t *testing.T) {
	svc := &fakeNotifier{}
	d := newTestDispatcher(t, svc)
	order := sampleOrder(enums.OrderStateCanceled)

	d.Canceled(context.Background(), order, enums.OrderStateDiagnosing, uuid.New())

	if len(svc.roleCalls) != 1 {
		t.Fatalf("expected only the coordinator/admin dispatch, got %d", len(svc.roleCalls))
	}
}

func TestDispatcherReassigned(t *testing.T) {
	prev := uuid.New()
	next := uuid.New()
	svc := &fakeNotifier{}
	d := newTestDispatcher(t, svc)
	order := sampleOrder(enums.OrderStateDiagnosing)
	order.AssignedTechID = &next

	d.Reassigned(context.Background(), order, &prev, uuid.New())

	if len(svc.userCalls) != 2 {
		t.Fatalf("expected 2 direct messages, got %d", len(svc.userCalls))
	}
	if svc.userCalls[0].recipient != prev || svc.userCalls[0].draft.Kind != enums.NotificationKindTechnicianUnassigned {
		t.Fatalf("expected unassigned message to previous tech, got %+v", svc.userCalls[0])
	}
	if svc.userCalls[1].recipient != next || svc.userCalls[1].draft.Kind != enums.NotificationKindTechnicianAssigned {
		t.Fatalf("expected assigned message to new tech, got %+v", svc.userCalls[1])
	}
}

func TestDispatcherReassignedUnassignOnly(t *testing.T) {
	prev := uuid.New()
	svc := &fakeNotifier{}
	d := newTestDispatcher(t, svc)
	order := sampleOrder(enums.OrderStateDiagnosing)

	d.Reassigned(context.Background(), order, &prev, uuid.New())

	if len(svc.userCalls) != 1 || svc.userCalls[0].draft.Kind != enums.NotificationKindTechnicianUnassigned {
		t.Fatalf("expected only the unassigned message, got %+v", svc.userCalls)
	}
}

func TestDispatcherPriorityEscalated(t *testing.T) {
	tech := uuid.New()
	svc := &fakeNotifier{}
	d := newTestDispatcher(t, svc)
	order := sampleOrder(enums.OrderStateRepairing)
	order.AssignedTechID = &tech

	d.PriorityEscalated(context.Background(), order, uuid.New())

	if len(svc.userCalls) != 1 {
		t.Fatalf("expected 1 direct message, got %d", len(svc.userCalls))
	}
	if svc.userCalls[0].draft.Priority != enums.NotificationPriorityUrgent {
		t.Fatalf("expected urgent priority, got %s", svc.userCalls[0].draft.Priority)
	}
}

func TestDispatcherPriorityEscalatedUnassignedNoop(t *testing.T) {
	svc := &fakeNotifier{}
	d := newTestDispatcher(t, svc)

	d.PriorityEscalated(context.Background(), sampleOrder(enums.OrderStateRepairing), uuid.New())

	if len(svc.userCalls) != 0 {
		t.Fatal("expected no dispatch without an assigned technician")
	}
}

func TestDispatcherQuoteChangedFormatsBothAmounts(t *testing.T) {
	svc := &fakeNotifier{}
	d := newTestDispatcher(t, svc)
	order := sampleOrder(enums.OrderStateQuotePending)
	newAmount := decimal.NewFromFloat(1450)
	order.QuoteAmount = &newAmount
	old := decimal.NewFromFloat(1200.5)

	d.QuoteChanged(context.Background(), order, &old, uuid.New())

	if len(svc.roleCalls) != 1 {
		t.Fatalf("expected 1 role dispatch, got %d", len(svc.roleCalls))
	}
	msg := svc.roleCalls[0].draft.Message
	if !strings.Contains(msg, "$1200.50") || !strings.Contains(msg, "$1450.00") {
		t.Fatalf("expected both amounts in message, got %q", msg)
	}
	if !rolesEqual(svc.roleCalls[0].roles, enums.UserRoleCoordinator, enums.UserRoleAdmin) {
		t.Fatalf("unexpected roles %v", svc.roleCalls[0].roles)
	}
}

func TestDispatcherQuoteChangedFirstQuote(t *testing.T) {
	svc := &fakeNotifier{}
	d := newTestDispatcher(t, svc)
	order := sampleOrder(enums.OrderStateQuotePending)
	amount := decimal.NewFromInt(900)
	order.QuoteAmount = &amount

	d.QuoteChanged(context.Background(), order, nil, uuid.New())

	if !strings.Contains(svc.roleCalls[0].draft.Message, "unquoted") {
		t.Fatalf("expected unquoted placeholder, got %q", svc.roleCalls[0].draft.Message)
	}
}

func TestDispatcherSwallowsServiceFailures(t *testing.T) {
	svc := &fakeNotifier{err: fmt.Errorf("store down")}
	d := newTestDispatcher(t, svc)
	order := sampleOrder(enums.OrderStateReceived)

	// Must not panic and must not surface the error.
	d.OrderCreated(context.Background(), order, uuid.New())
	d.Canceled(context.Background(), order, enums.OrderStateAwaitingParts, uuid.New())
}
