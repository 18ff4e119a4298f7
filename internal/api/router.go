package api

import (
	"log/slog"

	"github.com/bengeek06/pm-users-api/internal/api/handlers"
	"github.com/bengeek06/pm-users-api/internal/api/middleware"
	"github.com/bengeek06/pm-users-api/internal/metrics"
	"github.com/bengeek06/pm-users-api/internal/refclient"
	"github.com/bengeek06/pm-users-api/internal/users"
	"github.com/bengeek06/pm-users-api/pkg/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

type Router struct {
	chi.Router
}

// RouterConfig carries every dependency the handlers need. It is built
// once at startup; nothing in the request path reaches for globals.
type RouterConfig struct {
	DB             *gorm.DB
	Cfg            *config.Config
	Logger         *slog.Logger
	RefChecker     refclient.Checker
	Registry       *prometheus.Registry
	AllowedOrigins []string
}

func NewRouter(rc RouterConfig) *Router {
	r := chi.NewRouter()

	registry := rc.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	collector := metrics.NewCollector(registry)

	// Global middleware
	r.Use(middleware.Recovery(rc.Logger))
	r.Use(middleware.Logging(rc.Logger))
	r.Use(middleware.Metrics(collector))

	if rc.Cfg.RateLimit.Requests > 0 {
		r.Use(middleware.RateLimit(rc.Cfg.RateLimit.Requests, rc.Cfg.RateLimit.WindowSeconds))
	}

	allowedOrigins := rc.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000", "http://localhost:8080"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.InternalTokenHeader},
		ExposedHeaders:   []string{"X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize services
	store := users.NewStore(rc.DB)
	validator := users.NewValidator(store, rc.RefChecker)

	// Initialize handlers
	userHandler := handlers.NewUserHandler(store, validator, rc.Logger)
	verifyHandler := handlers.NewVerifyHandler(store, rc.Logger)
	transferHandler := handlers.NewTransferHandler(store, validator, collector, rc.Logger)
	metaHandler := handlers.NewMetaHandler(rc.DB, rc.Cfg)

	internalOnly := middleware.Internal(rc.Cfg.Server.Env, rc.Cfg.Internal.Secret, rc.Logger)

	r.Route("/users", func(r chi.Router) {
		r.Get("/", userHandler.List)
		r.Post("/", userHandler.Create)
		r.Get("/{id}", userHandler.Get)
		r.Put("/{id}", userHandler.Replace)
		r.Patch("/{id}", userHandler.Patch)
		r.Delete("/{id}", userHandler.Delete)

		r.Group(func(r chi.Router) {
			r.Use(internalOnly)
			r.Post("/verify_password", verifyHandler.VerifyPassword)
		})
	})

	r.Get("/export/csv", transferHandler.ExportCSV)
	r.Post("/import/csv", transferHandler.ImportCSV)
	r.Post("/import/json", transferHandler.ImportJSON)

	r.Get("/version", metaHandler.Version)
	r.Get("/config", metaHandler.Config)
	r.Get("/health", metaHandler.Health)
	r.Handle("/metrics", metrics.Handler(registry))

	return &Router{r}
}
