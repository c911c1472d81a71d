package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/api/handlers"
	custommiddleware "github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/api/middleware"
	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/config"
	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/logging"
	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/selectiontoken"
	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/service"
)

// Services groups the services the router dispatches to.
type Services struct {
	System    *service.SystemService
	Portfolio *service.PortfolioService
	Harvest   *service.HarvestService
	Selection *service.SelectionService
	Sync      *service.SyncService
}

// NewRouter creates and configures the HTTP router
func NewRouter(svc Services, codec *selectiontoken.Codec, logger *logging.Logger, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger(logger))
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	systemHandler := handlers.NewSystemHandler(svc.System, svc.Selection)
	portfolioHandler := handlers.NewPortfolioHandler(svc.Portfolio)
	holdingHandler := handlers.NewHoldingHandler(svc.Harvest, svc.Sync)
	harvestHandler := handlers.NewHarvestHandler(svc.Harvest, codec, cfg.Report.Currency)
	selectionHandler := handlers.NewSelectionHandler(svc.Selection, svc.Harvest, codec)

	r.Route("/api", func(r chi.Router) {
		r.Route("/system", func(r chi.Router) {
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/portfolio", func(r chi.Router) {
			r.Get("/", portfolioHandler.Portfolios)
			r.Post("/", portfolioHandler.CreatePortfolio)

			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", portfolioHandler.Portfolio)

				r.Get("/holdings", holdingHandler.Holdings)
				r.Put("/holdings", holdingHandler.ImportHoldings)
				r.Get("/capital-gains", holdingHandler.CapitalGains)
				r.Post("/sync", holdingHandler.Sync)

				r.Post("/harvest", harvestHandler.Harvest)
				r.Get("/harvest/report", harvestHandler.Report)

				r.Post("/selection", selectionHandler.Create)
				r.Route("/selection/{selectionId}", func(r chi.Router) {
					r.Use(custommiddleware.ValidateUUIDParam("selectionId"))
					r.Get("/", selectionHandler.Get)
					r.Delete("/", selectionHandler.Delete)
					r.Post("/toggle", selectionHandler.Toggle)
					r.Post("/select-all", selectionHandler.SelectAll)
					r.Post("/toggle-all", selectionHandler.ToggleAll)
					r.Post("/clear", selectionHandler.Clear)
					r.Get("/harvest", selectionHandler.Harvest)
					r.Post("/token", selectionHandler.Token)
				})
			})
		})
	})

	return r
}
