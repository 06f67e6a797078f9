package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sahilmehta/cellstock-backend/api/responses"
	"github.com/sahilmehta/cellstock-backend/internal/inventory"
	pkgerrors "github.com/sahilmehta/cellstock-backend/pkg/errors"
	"github.com/sahilmehta/cellstock-backend/pkg/logger"
)

// StockMobiles lists a dealer's mobile stock records.
func StockMobiles(svc inventory.StockService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "stock service unavailable"))
			return
		}

		dealerID, err := requireDealerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.ListMobiles(r.Context(), dealerID, parseLimit(r, 100))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// StockAccessories lists a dealer's accessory stock records.
func StockAccessories(svc inventory.StockService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "stock service unavailable"))
			return
		}

		dealerID, err := requireDealerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.ListAccessories(r.Context(), dealerID, parseLimit(r, 100))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// StockCodeLookup resolves a minted unit code to its stock record.
func StockCodeLookup(svc inventory.StockService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "stock service unavailable"))
			return
		}

		result, err := svc.LookupCode(r.Context(), chi.URLParam(r, "code"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func requireDealerID(r *http.Request) (uuid.UUID, error) {
	raw := r.URL.Query().Get("dealer_id")
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "dealer_id query parameter required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid dealer id")
	}
	return id, nil
}
