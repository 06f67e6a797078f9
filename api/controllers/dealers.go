package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sahilmehta/cellstock-backend/api/responses"
	"github.com/sahilmehta/cellstock-backend/api/validators"
	"github.com/sahilmehta/cellstock-backend/internal/dealers"
	pkgerrors "github.com/sahilmehta/cellstock-backend/pkg/errors"
	"github.com/sahilmehta/cellstock-backend/pkg/logger"
)

// DealerCreate registers a dealer.
func DealerCreate(svc dealers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dealer service unavailable"))
			return
		}

		var input dealers.CreateDealerInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dealer, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dealers.ToDealerResponse(*dealer))
	}
}

// DealerGet returns one dealer by id.
func DealerGet(svc dealers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dealer service unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "dealerId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid dealer id"))
			return
		}

		dealer, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dealers.ToDealerResponse(*dealer))
	}
}

// DealerUpdate edits a dealer; the cached name snapshot is invalidated so
// codes minted after the change use the new dealer token.
func DealerUpdate(svc dealers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dealer service unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "dealerId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid dealer id"))
			return
		}

		var input dealers.UpdateDealerInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dealer, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dealers.ToDealerResponse(*dealer))
	}
}

// DealerList returns registered dealers, newest limit applied server side.
func DealerList(svc dealers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dealer service unavailable"))
			return
		}

		limit := parseLimit(r, 100)
		rows, err := svc.List(r.Context(), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		out := make([]dealers.DealerResponse, 0, len(rows))
		for i := range rows {
			out = append(out, dealers.ToDealerResponse(rows[i]))
		}
		responses.WriteSuccess(w, out)
	}
}

func parseLimit(r *http.Request, fallback int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return fallback
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return fallback
	}
	return limit
}
