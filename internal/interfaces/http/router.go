package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/facturacion-sri/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Comprobantes *ComprobanteHandler
	JWTSecret    string
	Gatherer     prometheus.Gatherer // nil: registro por defecto
	Log          *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Use(RequestID(), RequestLogger(deps.Log))

	// Métricas Prometheus (público, para el scraper)
	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	// Rutas protegidas (requieren Bearer Token)
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	h := deps.Comprobantes

	comprobantes := api.Group("/comprobantes")
	comprobantes.Post("/facturas", RequireRole(RoleAdmin, RoleEmisor), h.CreateFactura)
	comprobantes.Post("/notas-credito", RequireRole(RoleAdmin, RoleEmisor), h.CreateNotaCredito)
	comprobantes.Get("/", RequireRole(RoleAdmin, RoleEmisor, RoleConsulta), h.List)
	comprobantes.Get("/:clave/estado", RequireRole(RoleAdmin, RoleEmisor, RoleConsulta), h.GetEstado)
	comprobantes.Get("/:clave/ride", RequireRole(RoleAdmin, RoleEmisor, RoleConsulta), h.GetRIDE)

	// Lotes y contingencia (solo admin)
	api.Post("/lotes", RequireRole(RoleAdmin), h.SubmitBatch)
	api.Post("/contingencia/reintentar", RequireRole(RoleAdmin), h.RetryContingency)
}
