// Package main provides the Sponsorflow API server implementation.
package main

import (
	"log/slog"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"go.opentelemetry.io/otel/trace"

	"github.com/sponsorlab/sponsorflow/pkg/eventbus"
	"github.com/sponsorlab/sponsorflow/pkg/persistence"
	"github.com/sponsorlab/sponsorflow/pkg/registry"
	"github.com/sponsorlab/sponsorflow/pkg/services"
	"github.com/sponsorlab/sponsorflow/pkg/web"
)

type API struct {
	logger      *slog.Logger
	persistence persistence.Persistence
	registry    *registry.Registry
	eventBus    eventbus.EventBus
	tracer      trace.Tracer
	validate    *validator.Validate
}

func NewAPI(
	logger *slog.Logger,
	persistence persistence.Persistence,
	eventBus eventbus.EventBus,
	tracer trace.Tracer,
) *API {
	return &API{
		logger:      logger,
		persistence: persistence,
		registry:    registry.NewRegistry(logger),
		eventBus:    eventBus,
		tracer:      tracer,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *API) App() *fiber.App {
	automationService := services.NewAutomation(a.persistence, a.eventBus, a.registry, a.tracer, a.logger)
	executionService := services.NewExecution(a.persistence, a.logger)

	handlers := web.NewAPIHandlers(automationService, executionService, a.validate, a.registry)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Sponsorflow API")
	})

	app.Get("/meta", handlers.GetMeta)

	auto := app.Group("/automations")
	auto.Get("/", handlers.GetAutomations)
	auto.Post("/", handlers.CreateAutomation)
	auto.Get("/:id", handlers.GetAutomation)
	auto.Put("/:id", handlers.UpdateAutomation)
	auto.Delete("/:id", handlers.DeleteAutomation)
	auto.Get("/:id/executions", handlers.GetExecutions)
	auto.Post("/:id/test", handlers.TestRun)

	app.Get("/executions/:id", handlers.GetExecution)

	app.Get("/health", handlers.HealthCheck)

	return app
}

func (a *API) Start(port int) error {
	app := a.App()

	return app.Listen(":" + strconv.Itoa(port))
}
