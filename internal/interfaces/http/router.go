package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/Documentos-api/internal/application/crud"
	"github.com/jhoicas/Documentos-api/internal/infrastructure/metrics"
	"github.com/jhoicas/Documentos-api/pkg/config"
	"github.com/jhoicas/Documentos-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Factory  *crud.Factory
	Log      *logger.Logger
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
	Paging   config.PagingConfig
	AppName  string
}

// Router registra middlewares y rutas de la API.
// recover va después de RequestLogger: un panic se convierte en error 500
// que el logger registra y cuenta en las métricas.
func Router(app *fiber.App, deps RouterDeps) {
	app.Use(RequestID(), RequestLogger(deps.Log, deps.Metrics), recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.AppName})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))

	api := app.Group("/api")

	// Persons
	persons := api.Group("/persons")
	personHandler := NewPersonHandler(deps.Factory, deps.Paging)
	persons.Get("/", personHandler.List)
	persons.Post("/", personHandler.Create)
	persons.Get("/by-username/:username", personHandler.GetByUsername)
	persons.Get("/:id", personHandler.GetByID)
	persons.Put("/:id", personHandler.Update)
	persons.Delete("/:id", personHandler.Delete)
	persons.Get("/:id/roles", personHandler.Roles)
	persons.Post("/:id/roles", personHandler.AssignRole)

	// Documents
	documents := api.Group("/documents")
	documentHandler := NewDocumentHandler(deps.Factory, deps.Paging)
	documents.Get("/", documentHandler.List)
	documents.Post("/", documentHandler.Create)
	documents.Get("/:id", documentHandler.GetByID)
	documents.Put("/:id", documentHandler.Update)
	documents.Delete("/:id", documentHandler.Delete)
}
