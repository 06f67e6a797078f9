package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/sahilmehta/cellstock-backend/api/responses"
	"github.com/sahilmehta/cellstock-backend/pkg/config"
	"github.com/sahilmehta/cellstock-backend/pkg/db"
	"github.com/sahilmehta/cellstock-backend/pkg/logger"
	"github.com/sahilmehta/cellstock-backend/pkg/redis"
)

const envHeader = "X-CellStock-Env"

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings backing services. The DB is required; redis is reported
// but does not fail readiness because the services degrade without it.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		components := map[string]string{}
		ready := true

		if dbP != nil {
			if err := dbP.Ping(ctx); err != nil {
				components["db"] = "down"
				ready = false
				if logg != nil {
					logg.Error(ctx, "db readiness ping failed", err)
				}
			} else {
				components["db"] = "up"
			}
		}

		if redisP != nil {
			if err := redisP.Ping(ctx); err != nil {
				components["redis"] = "down"
				if logg != nil {
					logg.Warn(logg.WithField(ctx, "error", err.Error()), "redis readiness ping failed")
				}
			} else {
				components["redis"] = "up"
			}
		}

		status := "ready"
		code := http.StatusOK
		if !ready {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
		responses.WriteSuccessStatus(w, code, map[string]any{
			"status":     status,
			"components": components,
		})
	}
}
