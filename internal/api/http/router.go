package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-gateway/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health   *handlers.HealthHandler
	Form     *handlers.FormHandler
	Gatherer prometheus.Gatherer

	// Limiter throttles POST /submit when set.
	Limiter          SubmissionLimiter
	SubmitsPerMinute int
	Logger           *zap.Logger
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))
	}

	app.Get("/", cfg.Form.Index)
	app.Get("/form", cfg.Form.Form)

	submit := []fiber.Handler{}
	if cfg.Limiter != nil && cfg.SubmitsPerMinute > 0 {
		submit = append(submit, rateLimitMiddleware(cfg.Limiter, cfg.SubmitsPerMinute, cfg.Logger))
	}
	submit = append(submit, cfg.Form.Submit)
	app.Post("/submit", submit...)
}
