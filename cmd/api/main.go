package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mvasquezdev/dealerhub-backend/api/routes"
	authsvc "github.com/mvasquezdev/dealerhub-backend/internal/auth"
	catalogsvc "github.com/mvasquezdev/dealerhub-backend/internal/catalog"
	dealersvc "github.com/mvasquezdev/dealerhub-backend/internal/dealers"
	discountsvc "github.com/mvasquezdev/dealerhub-backend/internal/discounts"
	ordersvc "github.com/mvasquezdev/dealerhub-backend/internal/orders"
	"github.com/mvasquezdev/dealerhub-backend/internal/pricing"
	settingssvc "github.com/mvasquezdev/dealerhub-backend/internal/settings"
	"github.com/mvasquezdev/dealerhub-backend/pkg/auth/session"
	"github.com/mvasquezdev/dealerhub-backend/pkg/config"
	"github.com/mvasquezdev/dealerhub-backend/pkg/db"
	"github.com/mvasquezdev/dealerhub-backend/pkg/logger"
	"github.com/mvasquezdev/dealerhub-backend/pkg/metrics"
	"github.com/mvasquezdev/dealerhub-backend/pkg/migrate"
	"github.com/mvasquezdev/dealerhub-backend/pkg/redis"
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

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	pricingMetrics := metrics.NewPricingMetrics(registry)

	resolver, err := pricing.NewResolver(pricing.NewRepository(dbClient.DB()), pricingMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create discount resolver", err)
		os.Exit(1)
	}

	dealerService, err := dealersvc.NewService(dealersvc.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create dealers service", err)
		os.Exit(1)
	}

	settingsService, err := settingssvc.NewService(settingssvc.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create settings service", err)
		os.Exit(1)
	}

	discountService, err := discountsvc.NewService(discountsvc.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create discounts service", err)
		os.Exit(1)
	}

	catalogRepo := catalogsvc.NewRepository(dbClient.DB())
	catalogService, err := catalogsvc.NewService(catalogRepo, dealerService, resolver)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	orderService, err := ordersvc.NewService(
		ordersvc.NewRepository(dbClient.DB()),
		catalogRepo,
		dealerService,
		settingsService,
		resolver,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	authService, err := authsvc.NewService(authsvc.ServiceParams{
		UserRepo:       authsvc.NewRepository(dbClient.DB()),
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	router := routes.NewRouter(routes.Deps{
		Config:          cfg,
		Logger:          logg,
		DB:              dbClient,
		Redis:           redisClient,
		SessionManager:  sessionManager,
		Metrics:         registry,
		AuthService:     authService,
		CatalogService:  catalogService,
		OrderService:    orderService,
		DealerService:   dealerService,
		DiscountService: discountService,
		SettingsService: settingsService,
	})

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
		Handler: router,
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-shutdownCtx.Done():
		logg.Info(ctx, "shutting down api server")
		drainCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(drainCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			os.Exit(1)
		}
	}
}
