package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/sahilmehta/cellstock-backend/api/routes"
	"github.com/sahilmehta/cellstock-backend/internal/codes"
	"github.com/sahilmehta/cellstock-backend/internal/dealers"
	"github.com/sahilmehta/cellstock-backend/internal/inventory"
	"github.com/sahilmehta/cellstock-backend/internal/purchases"
	"github.com/sahilmehta/cellstock-backend/pkg/config"
	"github.com/sahilmehta/cellstock-backend/pkg/db"
	"github.com/sahilmehta/cellstock-backend/pkg/logger"
	"github.com/sahilmehta/cellstock-backend/pkg/metrics"
	"github.com/sahilmehta/cellstock-backend/pkg/migrate"
	"github.com/sahilmehta/cellstock-backend/pkg/outbox"
	"github.com/sahilmehta/cellstock-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	counterService, err := codes.NewService(codes.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create code counter service", err)
		os.Exit(1)
	}

	dealerService, err := dealers.NewService(dealers.NewRepository(dbClient.DB()), redisClient, cfg.Dealers.TTL, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create dealer service", err)
		os.Exit(1)
	}

	stockRepo := inventory.NewRepository(dbClient.DB())
	mobileReconciler, err := inventory.NewMobileReconciler(stockRepo, counterService, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create mobile reconciler", err)
		os.Exit(1)
	}
	accessoryReconciler, err := inventory.NewAccessoryReconciler(stockRepo, counterService, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create accessory reconciler", err)
		os.Exit(1)
	}
	stockService, err := inventory.NewStockService(stockRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create stock service", err)
		os.Exit(1)
	}

	outboxService := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)
	receiveMetrics := metrics.NewReceiveMetrics(prometheus.DefaultRegisterer)

	purchaseService, err := purchases.NewService(
		purchases.NewRepository(dbClient.DB()),
		dealerService,
		mobileReconciler,
		accessoryReconciler,
		dbClient,
		outboxService,
		receiveMetrics,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create purchase service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, dealerService, purchaseService, stockService),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
