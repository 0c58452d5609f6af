package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/nengoo-market/nengoo-backend/api/routes"
	"github.com/nengoo-market/nengoo-backend/internal/admins"
	"github.com/nengoo-market/nengoo-backend/internal/auth"
	"github.com/nengoo-market/nengoo-backend/internal/buyers"
	checkoutsvc "github.com/nengoo-market/nengoo-backend/internal/checkout"
	"github.com/nengoo-market/nengoo-backend/internal/notifications"
	"github.com/nengoo-market/nengoo-backend/internal/orders"
	"github.com/nengoo-market/nengoo-backend/internal/pickup"
	"github.com/nengoo-market/nengoo-backend/internal/products"
	"github.com/nengoo-market/nengoo-backend/internal/sellers"
	"github.com/nengoo-market/nengoo-backend/internal/settings"
	"github.com/nengoo-market/nengoo-backend/pkg/config"
	"github.com/nengoo-market/nengoo-backend/pkg/db"
	"github.com/nengoo-market/nengoo-backend/pkg/logger"
	"github.com/nengoo-market/nengoo-backend/pkg/metrics"
	"github.com/nengoo-market/nengoo-backend/pkg/migrate"
	"github.com/nengoo-market/nengoo-backend/pkg/outbox"
	"github.com/nengoo-market/nengoo-backend/pkg/redis"
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

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	gdb := dbClient.DB()
	buyerRepo := buyers.NewRepository(gdb)
	sellerRepo := sellers.NewRepository(gdb)
	adminRepo := admins.NewRepository(gdb)
	productRepo := products.NewRepository(gdb)
	settingsRepo := settings.NewRepository(gdb)
	pickupRepo := pickup.NewRepository(gdb)
	notificationRepo := notifications.NewRepository(gdb)
	orderRepo := orders.NewRepository(gdb)

	outboxService := outbox.NewService(outbox.NewRepository(gdb), logg)
	orderMetrics := metrics.NewOrderMetrics(prometheus.DefaultRegisterer)

	authService, err := auth.NewService(auth.ServiceParams{
		BuyerRepo:      buyerRepo,
		SellerRepo:     sellerRepo,
		AdminRepo:      adminRepo,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
		Logger:         logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	checkoutService, err := checkoutsvc.NewService(
		dbClient,
		buyerRepo,
		productRepo,
		sellerRepo,
		adminRepo,
		settingsRepo,
		orderRepo,
		outboxService,
		cfg.Checkout.DefaultShippingPrice,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(
		orderRepo,
		productRepo,
		dbClient,
		outboxService,
		orderMetrics,
		cfg.Checkout.LowStockThreshold,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	productsService, err := products.NewService(productRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create products service", err)
		os.Exit(1)
	}

	pickupService, err := pickup.NewService(pickupRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create pickup service", err)
		os.Exit(1)
	}

	notificationsService, err := notifications.NewService(notificationRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
		os.Exit(1)
	}

	statsService, err := admins.NewStatsService(orderRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create stats service", err)
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
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:       cfg,
			Logger:       logg,
			DB:           dbClient,
			Redis:        redisClient,
			AuthService:  authService,
			Checkout:     checkoutService,
			Orders:       ordersService,
			Products:     productsService,
			Pickup:       pickupService,
			Notification: notificationsService,
			Stats:        statsService,
			Metrics:      orderMetrics,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
