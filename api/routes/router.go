package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jirasak-dev/stockledger/api/controllers"
	"github.com/jirasak-dev/stockledger/api/middleware"
	authsvc "github.com/jirasak-dev/stockledger/internal/auth"
	"github.com/jirasak-dev/stockledger/pkg/config"
	"github.com/jirasak-dev/stockledger/pkg/logger"
	"github.com/jirasak-dev/stockledger/pkg/metrics"
)

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	Metrics     *metrics.HTTPMetrics
	DBPinger    controllers.Pinger
	RedisPinger controllers.Pinger
	Auth        authsvc.Service
	Products    controllers.ProductService
	Ledger      controllers.LedgerService
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)
	if deps.Metrics != nil {
		r.Use(middleware.Metrics(deps.Metrics))
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps.DBPinger, deps.RedisPinger, logg))
	})

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/register", controllers.Register(deps.Auth, logg))
		r.Post("/login", controllers.Login(deps.Auth, logg))
		r.With(middleware.Auth(cfg.JWT, logg)).Get("/me", controllers.Me(logg))
	})

	// The catalog list is the one public read; everything else requires a
	// verified token carrying a usable Id claim.
	r.Get("/api/v1/products", controllers.ListProducts(deps.Products, logg))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/mine", controllers.ListMyProducts(deps.Products, logg))
			r.Post("/", controllers.CreateProduct(deps.Products, logg))
			r.Get("/{productID}", controllers.GetProduct(deps.Products, logg))
			r.Put("/{productID}", controllers.UpdateProduct(deps.Products, logg))
			r.Delete("/{productID}", controllers.DeleteProduct(deps.Products, logg))
			r.Post("/{productID}/restore", controllers.RestoreProduct(deps.Products, logg))
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", controllers.ListTransactions(deps.Ledger, logg))
			r.Get("/mine", controllers.ListMyTransactions(deps.Ledger, logg))
			r.Post("/", controllers.CreateTransaction(deps.Ledger, deps.Products, logg))
		})
	})

	return r
}
