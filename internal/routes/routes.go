package routes

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"

	"github.com/nickredmond/lambda-ambr-payment-service/internal/auth"
	"github.com/nickredmond/lambda-ambr-payment-service/internal/config"
	"github.com/nickredmond/lambda-ambr-payment-service/internal/middleware"
	"github.com/nickredmond/lambda-ambr-payment-service/internal/notification"
	"github.com/nickredmond/lambda-ambr-payment-service/internal/payments"
)

// Runtime is the shared environment the routes run against.
type Runtime interface {
	payments.Environment
	Ping(ctx context.Context) error
}

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg     config.Config
	Runtime Runtime
	Cache   *redis.Client
	Logger  *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	if d.Runtime == nil {
		return fmt.Errorf("runtime is required")
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if !d.Cfg.IsDev() && d.Cache == nil {
		return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
	}

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger))
	if d.Cache != nil {
		app.Use(middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}

	RegisterHealthRoutes(app, d)

	notifier := notification.NewLoggerNotifier(d.Logger)
	paymentSvc := payments.NewService(d.Runtime, auth.NewVerifier(), notifier, d.Logger)
	paymentHandler := payments.NewHandler(paymentSvc, d.Logger, d.Cfg.RequestTimeout)

	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	RegisterPaymentRoutes(api, paymentHandler, middleware.PaymentRateLimit(d.Cache, d.Cfg.RateLimit))
	return nil
}
