package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sahilmehta/cellstock-backend/api/controllers"
	"github.com/sahilmehta/cellstock-backend/api/middleware"
	"github.com/sahilmehta/cellstock-backend/internal/dealers"
	"github.com/sahilmehta/cellstock-backend/internal/inventory"
	"github.com/sahilmehta/cellstock-backend/internal/purchases"
	"github.com/sahilmehta/cellstock-backend/pkg/config"
	"github.com/sahilmehta/cellstock-backend/pkg/db"
	"github.com/sahilmehta/cellstock-backend/pkg/logger"
	"github.com/sahilmehta/cellstock-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisP redis.Pinger,
	dealerService dealers.Service,
	purchaseService purchases.Service,
	stockService inventory.StockService,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/dealers", func(r chi.Router) {
			r.Post("/", controllers.DealerCreate(dealerService, logg))
			r.Get("/", controllers.DealerList(dealerService, logg))
			r.Get("/{dealerId}", controllers.DealerGet(dealerService, logg))
			r.Patch("/{dealerId}", controllers.DealerUpdate(dealerService, logg))
		})

		r.Route("/purchases", func(r chi.Router) {
			r.Post("/", controllers.PurchaseCreate(purchaseService, logg))
			r.Get("/", controllers.PurchaseList(purchaseService, logg))
			r.Get("/{purchaseId}", controllers.PurchaseGet(purchaseService, logg))
			r.Post("/{purchaseId}/receive", controllers.PurchaseReceive(purchaseService, logg))
		})

		r.Route("/stock", func(r chi.Router) {
			r.Get("/mobiles", controllers.StockMobiles(stockService, logg))
			r.Get("/accessories", controllers.StockAccessories(stockService, logg))
			r.Get("/codes/{code}", controllers.StockCodeLookup(stockService, logg))
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
