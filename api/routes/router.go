package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tableserve/captain/api/controllers"
	"github.com/tableserve/captain/api/middleware"
	"github.com/tableserve/captain/internal/orchestrator"
	"github.com/tableserve/captain/pkg/config"
	"github.com/tableserve/captain/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	printerSvc controllers.PrinterService,
	orchestratorSvc orchestrator.Service,
	gatherer prometheus.Gatherer,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Get("/healthz", controllers.Healthz(cfg))
	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/v1/printer", func(r chi.Router) {
		r.Get("/status", controllers.PrinterStatus(printerSvc, logg))
		r.Post("/scan", controllers.PrinterScan(printerSvc, logg))
		r.Post("/connect", controllers.PrinterConnect(printerSvc, logg))
		r.Post("/disconnect", controllers.PrinterDisconnect(printerSvc, logg))
		r.Post("/test", controllers.PrinterTest(orchestratorSvc, logg))
	})

	r.Route("/v1/orders", func(r chi.Router) {
		r.Post("/print", controllers.OrdersPrint(orchestratorSvc, logg))
		r.Post("/quote", controllers.OrdersQuote(orchestratorSvc, logg))
	})

	return r
}
