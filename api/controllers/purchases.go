package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sahilmehta/cellstock-backend/api/responses"
	"github.com/sahilmehta/cellstock-backend/api/validators"
	"github.com/sahilmehta/cellstock-backend/internal/purchases"
	pkgerrors "github.com/sahilmehta/cellstock-backend/pkg/errors"
	"github.com/sahilmehta/cellstock-backend/pkg/logger"
)

// PurchaseCreate registers a pending purchase order with its line items.
func PurchaseCreate(svc purchases.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "purchase service unavailable"))
			return
		}

		var input purchases.CreatePurchaseInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, purchases.ToPurchaseResponse(order))
	}
}

// PurchaseGet returns one purchase order with its line items.
func PurchaseGet(svc purchases.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "purchase service unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "purchaseId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid purchase id"))
			return
		}

		order, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, purchases.ToPurchaseResponse(order))
	}
}

// PurchaseList returns purchase orders, optionally filtered by dealer.
func PurchaseList(svc purchases.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "purchase service unavailable"))
			return
		}

		dealerID := uuid.Nil
		if raw := r.URL.Query().Get("dealer_id"); raw != "" {
			parsed, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid dealer id"))
				return
			}
			dealerID = parsed
		}

		orders, err := svc.List(r.Context(), dealerID, parseLimit(r, 50))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		out := make([]purchases.PurchaseResponse, 0, len(orders))
		for i := range orders {
			out = append(out, purchases.ToPurchaseResponse(&orders[i]))
		}
		responses.WriteSuccess(w, out)
	}
}

// PurchaseReceive reconciles a purchase order's line items into stock and
// flips it to received.
func PurchaseReceive(svc purchases.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "purchase service unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "purchaseId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid purchase id"))
			return
		}

		result, err := svc.Receive(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, purchases.NewReceiveResponse(*result))
	}
}
