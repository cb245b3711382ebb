package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mvasquezdev/dealerhub-backend/api/controllers"
	"github.com/mvasquezdev/dealerhub-backend/api/middleware"
	authsvc "github.com/mvasquezdev/dealerhub-backend/internal/auth"
	catalogsvc "github.com/mvasquezdev/dealerhub-backend/internal/catalog"
	dealersvc "github.com/mvasquezdev/dealerhub-backend/internal/dealers"
	discountsvc "github.com/mvasquezdev/dealerhub-backend/internal/discounts"
	ordersvc "github.com/mvasquezdev/dealerhub-backend/internal/orders"
	settingssvc "github.com/mvasquezdev/dealerhub-backend/internal/settings"
	"github.com/mvasquezdev/dealerhub-backend/pkg/auth/session"
	"github.com/mvasquezdev/dealerhub-backend/pkg/config"
	"github.com/mvasquezdev/dealerhub-backend/pkg/enums"
	"github.com/mvasquezdev/dealerhub-backend/pkg/logger"
	"github.com/mvasquezdev/dealerhub-backend/pkg/redis"
)

type sessionManager interface {
	session.AccessSessionChecker
	Rotate(context.Context, string, string) (string, string, error)
	Revoke(context.Context, string) error
}

type pinger interface {
	Ping(ctx context.Context) error
}

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config         *config.Config
	Logger         *logger.Logger
	DB             pinger
	Redis          *redis.Client
	SessionManager sessionManager
	Metrics        prometheus.Gatherer

	AuthService     authsvc.Service
	CatalogService  catalogsvc.Service
	OrderService    ordersvc.Service
	DealerService   dealersvc.Service
	DiscountService discountsvc.Service
	SettingsService settingssvc.Service
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
		cfg.AuthRateLimit.LoginEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps.DB, deps.Redis, logg))
	})

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Metrics, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/login", controllers.AuthLogin(deps.AuthService, logg))
		r.Post("/logout", controllers.AuthLogout(deps.SessionManager, cfg.JWT, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.SessionManager, cfg.JWT, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.SessionManager, logg))
		r.Use(middleware.Idempotency(deps.Redis, logg))

		r.Route("/catalog", func(r chi.Router) {
			r.Get("/", controllers.CatalogList(deps.CatalogService, logg))
			r.Get("/{productId}", controllers.CatalogGet(deps.CatalogService, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", controllers.CreateOrder(deps.OrderService, logg))
			r.Get("/", controllers.ListOrders(deps.OrderService, logg))
			r.Get("/{orderId}", controllers.GetOrder(deps.OrderService, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.SessionManager, logg))
		r.Use(middleware.RequireRole(string(enums.UserRoleAdmin), logg))
		r.Use(middleware.Idempotency(deps.Redis, logg))

		r.Route("/product-discounts", func(r chi.Router) {
			r.Get("/", controllers.ListProductDiscounts(deps.DiscountService, logg))
			r.Put("/{productId}", controllers.UpsertProductDiscount(deps.DiscountService, logg))
			r.Delete("/{productId}", controllers.DeleteProductDiscount(deps.DiscountService, logg))
		})

		r.Route("/category-discounts", func(r chi.Router) {
			r.Get("/", controllers.ListCategoryDiscounts(deps.DiscountService, logg))
			r.Put("/{collectionId}", controllers.UpsertCategoryDiscount(deps.DiscountService, logg))
			r.Delete("/{collectionId}", controllers.DeleteCategoryDiscount(deps.DiscountService, logg))
		})

		r.Route("/discount-tiers", func(r chi.Router) {
			r.Get("/", controllers.ListDiscountTiers(deps.DiscountService, logg))
			r.Put("/", controllers.UpsertDiscountTier(deps.DiscountService, logg))
			r.Delete("/", controllers.DeleteDiscountTier(deps.DiscountService, logg))
		})

		r.Route("/dealers", func(r chi.Router) {
			r.Get("/", controllers.ListDealers(deps.DealerService, logg))
			r.Post("/", controllers.CreateDealer(deps.DealerService, logg))
			r.Get("/{dealerId}", controllers.GetDealer(deps.DealerService, logg))
			r.Patch("/{dealerId}", controllers.UpdateDealer(deps.DealerService, logg))

			r.Get("/{dealerId}/discounts", controllers.ListDealerDiscounts(deps.DiscountService, logg))
			r.Put("/{dealerId}/product-discounts/{productId}", controllers.UpsertDealerProductDiscount(deps.DiscountService, logg))
			r.Delete("/{dealerId}/product-discounts/{productId}", controllers.DeleteDealerProductDiscount(deps.DiscountService, logg))
			r.Put("/{dealerId}/category-discounts/{collectionId}", controllers.UpsertDealerCategoryDiscount(deps.DiscountService, logg))
			r.Delete("/{dealerId}/category-discounts/{collectionId}", controllers.DeleteDealerCategoryDiscount(deps.DiscountService, logg))
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/", controllers.GetSettings(deps.SettingsService, logg))
			r.Put("/", controllers.UpdateSettings(deps.SettingsService, logg))
		})

		r.Post("/users", controllers.RegisterUser(deps.AuthService, logg))

		r.Patch("/orders/{orderId}/status", controllers.UpdateOrderStatus(deps.OrderService, logg))

		r.Route("/catalog", func(r chi.Router) {
			r.Put("/products", controllers.SyncCatalogProducts(deps.CatalogService, logg))
			r.Put("/collections", controllers.SyncCatalogCollections(deps.CatalogService, logg))
		})
	})

	return r
}
