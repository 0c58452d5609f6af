package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nengoo-market/nengoo-backend/api/controllers"
	"github.com/nengoo-market/nengoo-backend/api/middleware"
	"github.com/nengoo-market/nengoo-backend/internal/admins"
	"github.com/nengoo-market/nengoo-backend/internal/auth"
	checkoutsvc "github.com/nengoo-market/nengoo-backend/internal/checkout"
	"github.com/nengoo-market/nengoo-backend/internal/notifications"
	"github.com/nengoo-market/nengoo-backend/internal/orders"
	"github.com/nengoo-market/nengoo-backend/internal/pickup"
	"github.com/nengoo-market/nengoo-backend/internal/products"
	"github.com/nengoo-market/nengoo-backend/pkg/config"
	"github.com/nengoo-market/nengoo-backend/pkg/db"
	"github.com/nengoo-market/nengoo-backend/pkg/enums"
	"github.com/nengoo-market/nengoo-backend/pkg/logger"
	"github.com/nengoo-market/nengoo-backend/pkg/metrics"
	"github.com/nengoo-market/nengoo-backend/pkg/redis"
)

// Deps bundles everything the HTTP surface needs.
type Deps struct {
	Config       *config.Config
	Logger       *logger.Logger
	DB           db.Pinger
	Redis        *redis.Client
	AuthService  auth.Service
	Checkout     checkoutsvc.Service
	Orders       orders.Service
	Products     products.Service
	Pickup       pickup.Service
	Notification notifications.Service
	Stats        admins.StatsService
	Metrics      *metrics.OrderMetrics
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginPhoneLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterPhoneLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Public catalog and checkout. Checkout is guest-capable by design.
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/login", controllers.Login(deps.AuthService, logg))
			r.With(middleware.AuthRateLimit(registerPolicy, deps.Redis, logg)).Post("/register/buyer", controllers.RegisterBuyer(deps.AuthService, logg))
			r.With(middleware.AuthRateLimit(registerPolicy, deps.Redis, logg)).Post("/register/seller", controllers.RegisterSeller(deps.AuthService, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(deps.Products, logg))
			r.Get("/{productID}", controllers.ProductDetail(deps.Products, logg))
		})

		r.Get("/pickup-points", controllers.ListPickupPoints(deps.Pickup, logg))

		r.With(middleware.Idempotency(deps.Redis, logg)).Post("/checkout", controllers.Checkout(deps.Checkout, deps.Metrics, logg))

		// Authenticated surfaces.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Use(middleware.Idempotency(deps.Redis, logg))

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.ListOrders(deps.Orders, logg))
				r.Get("/{orderID}", controllers.OrderDetail(deps.Orders, logg))
				r.Put("/{orderID}", controllers.UpdateOrder(deps.Orders, deps.Metrics, logg))
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", controllers.ListNotifications(deps.Notification, logg))
				r.Put("/{notificationID}/read", controllers.MarkNotificationRead(deps.Notification, logg))
				r.Put("/read-all", controllers.MarkAllNotificationsRead(deps.Notification, logg))
			})
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/auth/login", controllers.AdminLogin(deps.AuthService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Use(middleware.RequireSupport(logg))
			r.Use(middleware.Idempotency(deps.Redis, logg))

			r.Get("/stats", controllers.AdminDashboard(deps.Stats, logg))

			r.Route("/pickup-points", func(r chi.Router) {
				r.Use(middleware.RequireRole(logg, enums.ActorRoleSuperAdmin))
				r.Post("/", controllers.CreatePickupPoint(deps.Pickup, logg))
				r.Put("/{pickupPointID}/active", controllers.SetPickupPointActive(deps.Pickup, logg))
			})
		})
	})

	return r
}
