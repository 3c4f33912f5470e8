package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jdelarosa/tallerflow-backend/api/middleware"
	"github.com/jdelarosa/tallerflow-backend/api/responses"
	"github.com/jdelarosa/tallerflow-backend/api/validators"
	ordersvc "github.com/jdelarosa/tallerflow-backend/internal/orders"
	"github.com/jdelarosa/tallerflow-backend/pkg/enums"
	pkgerrors "github.com/jdelarosa/tallerflow-backend/pkg/errors"
	"github.com/jdelarosa/tallerflow-backend/pkg/logger"
)

func actorFromContext(ctx context.Context) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(ctx)
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing identity")
	}
	actorID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}
	return actorID, nil
}

func orderIDParam(r *http.Request) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "orderId"))
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order id")
	}
	return id, nil
}

// CreateOrder handles service order intake.
func CreateOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		actorID, err := actorFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput(actorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

type createOrderRequest struct {
	CustomerName  string `json:"customer_name" validate:"required,max=200"`
	Device        string `json:"device" validate:"required,max=200"`
	ReportedIssue string `json:"reported_issue" validate:"required"`
	Priority      string `json:"priority"`
}

func (p createOrderRequest) toInput(actorID uuid.UUID) (ordersvc.CreateOrderInput, error) {
	input := ordersvc.CreateOrderInput{
		CustomerName:  strings.TrimSpace(p.CustomerName),
		Device:        strings.TrimSpace(p.Device),
		ReportedIssue: strings.TrimSpace(p.ReportedIssue),
		ActorID:       actorID,
	}
	if raw := strings.TrimSpace(p.Priority); raw != "" {
		priority, err := enums.ParseOrderPriority(raw)
		if err != nil {
			return ordersvc.CreateOrderInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid priority")
		}
		input.Priority = priority
	}
	return input, nil
}

// TransitionOrder moves an order to the requested state.
func TransitionOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		actorID, err := actorFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := orderIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload transitionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		to, err := enums.ParseOrderState(strings.TrimSpace(payload.To))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid target state"))
			return
		}

		order, err := svc.Transition(r.Context(), ordersvc.TransitionInput{
			OrderID: orderID,
			To:      to,
			ActorID: actorID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}

type transitionRequest struct {
	To string `json:"to" validate:"required"`
}

// CancelOrder terminates an order with a reason.
func CancelOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		actorID, err := actorFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := orderIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload cancelRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Cancel(r.Context(), ordersvc.CancelInput{
			OrderID: orderID,
			Reason:  strings.TrimSpace(payload.Reason),
			ActorID: actorID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

// AssignOrder sets or clears the technician on an order. A null
// technician_id unassigns.
func AssignOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		actorID, err := actorFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := orderIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload assignRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Assign(r.Context(), ordersvc.AssignInput{
			OrderID:      orderID,
			TechnicianID: payload.TechnicianID,
			ActorID:      actorID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}

type assignRequest struct {
	TechnicianID *uuid.UUID `json:"technician_id"`
}

// SetOrderPriority changes an order's priority.
func SetOrderPriority(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		actorID, err := actorFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := orderIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload priorityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		priority, err := enums.ParseOrderPriority(strings.TrimSpace(payload.Priority))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid priority"))
			return
		}

		order, err := svc.EscalatePriority(r.Context(), ordersvc.SetPriorityInput{
			OrderID:  orderID,
			Priority: priority,
			ActorID:  actorID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}

type priorityRequest struct {
	Priority string `json:"priority" validate:"required"`
}

// SetOrderQuote records or revises the repair quote.
func SetOrderQuote(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		actorID, err := actorFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := orderIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload quoteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		amount, err := decimal.NewFromString(strings.TrimSpace(payload.Amount))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid quote amount"))
			return
		}

		order, err := svc.UpdateQuote(r.Context(), ordersvc.SetQuoteInput{
			OrderID: orderID,
			Amount:  amount,
			ActorID: actorID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}

type quoteRequest struct {
	Amount string `json:"amount" validate:"required"`
}

// GetOrder returns a single order annotated with its semaphore color.
func GetOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		orderID, err := orderIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Get(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}

// ListActiveOrders returns the workshop board: every non-terminal order
// with its derived semaphore color.
func ListActiveOrders(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		views, err := svc.ListActive(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"items": views})
	}
}
