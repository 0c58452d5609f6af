package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/nengoo-market/nengoo-backend/api/middleware"
	"github.com/nengoo-market/nengoo-backend/api/responses"
	"github.com/nengoo-market/nengoo-backend/api/validators"
	"github.com/nengoo-market/nengoo-backend/internal/orders"
	"github.com/nengoo-market/nengoo-backend/pkg/enums"
	pkgerrors "github.com/nengoo-market/nengoo-backend/pkg/errors"
	"github.com/nengoo-market/nengoo-backend/pkg/logger"
	"github.com/nengoo-market/nengoo-backend/pkg/metrics"
	"github.com/nengoo-market/nengoo-backend/pkg/pagination"
)

// ListOrders returns the caller's orders, scoped by role.
func ListOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		actor, ok := middleware.ActorFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "actor context missing"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params := pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		}

		filters, err := orderFiltersFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context(), actor, params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// OrderDetail returns one order with its line items.
func OrderDetail(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		actor, ok := middleware.ActorFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "actor context missing"))
			return
		}

		orderID, err := orderIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Get(r.Context(), actor, orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// UpdateOrder applies a partial lifecycle update to one order.
func UpdateOrder(svc orders.Service, orderMetrics *metrics.OrderMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		actor, ok := middleware.ActorFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "actor context missing"))
			return
		}

		orderID, err := orderIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload orderUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Update(r.Context(), actor, orderID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if result.StatusChanged {
			orderMetrics.IncTransition(string(result.PreviousStatus), string(result.Order.Status))
		}

		responses.WriteSuccess(w, result.Order)
	}
}

type orderUpdateRequest struct {
	Status        *string `json:"status,omitempty"`
	PaymentStatus *string `json:"payment_status,omitempty"`
	PickupStatus  *string `json:"pickup_status,omitempty"`
}

func (o orderUpdateRequest) toInput() (orders.UpdateInput, error) {
	var input orders.UpdateInput
	if o.Status != nil {
		status := enums.OrderStatus(*o.Status)
		if !status.IsValid() {
			return input, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
		}
		input.Status = &status
	}
	if o.PaymentStatus != nil {
		payment := enums.PaymentStatus(*o.PaymentStatus)
		if !payment.IsValid() {
			return input, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment status")
		}
		input.PaymentStatus = &payment
	}
	if o.PickupStatus != nil {
		pickup := enums.PickupStatus(*o.PickupStatus)
		if !pickup.IsValid() {
			return input, pkgerrors.New(pkgerrors.CodeValidation, "invalid pickup status")
		}
		input.PickupStatus = &pickup
	}
	return input, nil
}

func orderFiltersFromQuery(r *http.Request) (orders.ListFilters, error) {
	var filters orders.ListFilters
	if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
		status := enums.OrderStatus(raw)
		if !status.IsValid() {
			return filters, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter")
		}
		filters.Status = &status
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("payment_status")); raw != "" {
		payment := enums.PaymentStatus(raw)
		if !payment.IsValid() {
			return filters, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment_status filter")
		}
		filters.PaymentStatus = &payment
	}
	return filters, nil
}

func orderIDFromRequest(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "orderID")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order id")
	}
	return id, nil
}
