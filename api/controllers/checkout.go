package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/nengoo-market/nengoo-backend/api/responses"
	"github.com/nengoo-market/nengoo-backend/api/validators"
	checkoutsvc "github.com/nengoo-market/nengoo-backend/internal/checkout"
	"github.com/nengoo-market/nengoo-backend/pkg/db/models"
	"github.com/nengoo-market/nengoo-backend/pkg/enums"
	pkgerrors "github.com/nengoo-market/nengoo-backend/pkg/errors"
	"github.com/nengoo-market/nengoo-backend/pkg/logger"
	"github.com/nengoo-market/nengoo-backend/pkg/metrics"
)

// Checkout submits a cart and returns the per-seller orders it produced.
func Checkout(svc checkoutsvc.Service, orderMetrics *metrics.OrderMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		start := time.Now()
		created, err := svc.Execute(r.Context(), payload.toInput())
		if err != nil {
			if orderMetrics != nil {
				orderMetrics.ObserveCheckout("error", time.Since(start))
			}
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if orderMetrics != nil {
			orderMetrics.ObserveCheckout("success", time.Since(start))
			for _, order := range created {
				orderMetrics.IncOrderCreated(string(order.PaymentMethod))
			}
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newCheckoutResponse(created))
	}
}

type checkoutItem struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Qty       int       `json:"qty" validate:"required,min=1"`
}

type checkoutRequest struct {
	Name           string         `json:"name" validate:"required"`
	Phone          string         `json:"phone" validate:"required"`
	Email          *string        `json:"email,omitempty" validate:"omitempty,email"`
	City           *string        `json:"city,omitempty"`
	PaymentMethod  string         `json:"payment_method" validate:"required"`
	DeliveryOption string         `json:"delivery_option" validate:"required"`
	PickupPointID  *uuid.UUID     `json:"pickup_point_id,omitempty"`
	Items          []checkoutItem `json:"items" validate:"required,min=1,dive"`
}

func (c checkoutRequest) toInput() checkoutsvc.Input {
	lines := make([]checkoutsvc.CartLine, 0, len(c.Items))
	for _, item := range c.Items {
		lines = append(lines, checkoutsvc.CartLine{ProductID: item.ProductID, Qty: item.Qty})
	}
	return checkoutsvc.Input{
		Contact: checkoutsvc.BuyerContact{
			Name:  c.Name,
			Phone: c.Phone,
			Email: c.Email,
			City:  c.City,
		},
		PaymentMethod:  enums.PaymentMethod(c.PaymentMethod),
		DeliveryOption: enums.DeliveryOption(c.DeliveryOption),
		PickupPointID:  c.PickupPointID,
		Lines:          lines,
	}
}

type checkoutResponse struct {
	Orders []models.Order `json:"orders"`
	Total  int64          `json:"total"`
}

func newCheckoutResponse(created []models.Order) checkoutResponse {
	var total int64
	for _, order := range created {
		total += order.TotalAmount
	}
	return checkoutResponse{Orders: created, Total: total}
}
