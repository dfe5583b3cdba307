package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/casa80eventos/casa80-backend/api/controllers"
	"github.com/casa80eventos/casa80-backend/api/middleware"
	authsvc "github.com/casa80eventos/casa80-backend/internal/auth"
	clientsvc "github.com/casa80eventos/casa80-backend/internal/clients"
	dashboardsvc "github.com/casa80eventos/casa80-backend/internal/dashboard"
	eventsvc "github.com/casa80eventos/casa80-backend/internal/events"
	exportsvc "github.com/casa80eventos/casa80-backend/internal/exports"
	inventorysvc "github.com/casa80eventos/casa80-backend/internal/inventory"
	seedsvc "github.com/casa80eventos/casa80-backend/internal/seed"
	usersvc "github.com/casa80eventos/casa80-backend/internal/users"
	"github.com/casa80eventos/casa80-backend/pkg/auth/session"
	"github.com/casa80eventos/casa80-backend/pkg/config"
	pkgdb "github.com/casa80eventos/casa80-backend/pkg/db"
	"github.com/casa80eventos/casa80-backend/pkg/enums"
	"github.com/casa80eventos/casa80-backend/pkg/logger"
	"github.com/casa80eventos/casa80-backend/pkg/metrics"
	"github.com/casa80eventos/casa80-backend/pkg/redis"
)

// Deps bundles everything the HTTP surface needs.
type Deps struct {
	Config    *config.Config
	Logger    *logger.Logger
	DB        pkgdb.Pinger
	Redis     *redis.Client
	Sessions  session.AccessSessionChecker
	Registry  *prometheus.Registry
	HTTP      *metrics.HTTPMetrics
	Auth      authsvc.Service
	Inventory inventorysvc.Service
	Events    eventsvc.Service
	Clients   clientsvc.Service
	Users     usersvc.Service
	UsersRepo usersvc.Repository
	Dashboard dashboardsvc.Service
	Exports   exportsvc.Service
	Seed      seedsvc.Service
}

// NewRouter builds the API router.
func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
		middleware.Metrics(deps.HTTP),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive())
		r.Get("/ready", controllers.HealthReady(deps.DB, deps.Redis, logg))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.RateLimit.LoginWindow,
		cfg.RateLimit.LoginIPLimit,
		cfg.RateLimit.LoginEmailLimit,
	)

	requireAuth := middleware.Auth(cfg.JWT, deps.Sessions, logg)
	requireAdmin := middleware.RequireRole(string(enums.UserRoleAdmin), logg)

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/login", controllers.AuthLogin(deps.Auth, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.Auth, logg))
		r.Post("/logout", controllers.AuthLogout(deps.Auth, logg))
		r.With(requireAuth).Get("/me", controllers.AuthMe(deps.Auth, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(requireAuth)

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductsList(deps.Inventory, logg))
			r.Get("/{id}", controllers.ProductsGet(deps.Inventory, logg))
			r.Get("/{id}/history", controllers.ProductsHistory(deps.Inventory, logg))

			r.Group(func(r chi.Router) {
				r.Use(requireAdmin)
				r.Post("/", controllers.ProductsCreate(deps.Inventory, logg))
				r.Patch("/{id}", controllers.ProductsUpdate(deps.Inventory, logg))
				r.Delete("/{id}", controllers.ProductsDelete(deps.Inventory, logg))
			})
		})

		r.Route("/inventory", func(r chi.Router) {
			r.Get("/damages", controllers.ProductsDamages(deps.Inventory, logg))
			r.Get("/template", controllers.ProductsTemplate(logg))
			r.With(requireAdmin).Post("/import", controllers.ProductsImport(deps.Inventory, logg))
		})

		r.Route("/events", func(r chi.Router) {
			r.Get("/", controllers.EventsList(deps.Events, logg))
			r.Get("/{id}", controllers.EventsGet(deps.Events, logg))

			r.Group(func(r chi.Router) {
				r.Use(requireAdmin)
				r.Post("/", controllers.EventsCreate(deps.Events, logg))
				r.Patch("/{id}", controllers.EventsUpdate(deps.Events, logg))
				r.Post("/{id}/status", controllers.EventsUpdateStatus(deps.Events, logg))
				r.Post("/{id}/return", controllers.EventsRegisterReturn(deps.Events, logg))
				r.Post("/{id}/items/{productId}/restore", controllers.EventsRestoreDamage(deps.Events, logg))
			})
		})

		r.Route("/clients", func(r chi.Router) {
			r.Get("/", controllers.ClientsList(deps.Clients, logg))
			r.Get("/{id}", controllers.ClientsGet(deps.Clients, logg))

			r.Group(func(r chi.Router) {
				r.Use(requireAdmin)
				r.Post("/", controllers.ClientsCreate(deps.Clients, logg))
				r.Patch("/{id}", controllers.ClientsUpdate(deps.Clients, logg))
				r.Delete("/{id}", controllers.ClientsDelete(deps.Clients, logg))
			})
		})

		r.Get("/dashboard/stats", controllers.DashboardStats(deps.Dashboard, logg))

		r.Route("/exports", func(r chi.Router) {
			r.Get("/events", controllers.ExportEvents(deps.Exports, logg))
			r.Get("/inventory", controllers.ExportInventory(deps.Exports, logg))
			r.Get("/clients", controllers.ExportClients(deps.Exports, logg))
			r.Get("/damages", controllers.ExportDamages(deps.Exports, logg))
		})
	})

	r.Route("/api/admin/v1/users", func(r chi.Router) {
		r.Use(requireAuth, requireAdmin)
		r.Get("/", controllers.UsersList(deps.Users, logg))
		r.Post("/", controllers.UsersCreate(deps.Users, logg))
		r.Get("/{id}", controllers.UsersGet(deps.Users, logg))
		r.Patch("/{id}", controllers.UsersUpdate(deps.Users, logg))
		r.Post("/{id}/deactivate", controllers.UsersDeactivate(deps.Users, logg))
	})

	if !cfg.App.IsProd() {
		r.Route("/api/debug", func(r chi.Router) {
			r.Post("/seed", controllers.DebugSeed(deps.Seed, logg))
			r.Post("/login-check", controllers.DebugLoginCheck(deps.UsersRepo, logg))
		})
	}

	return r
}
