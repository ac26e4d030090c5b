package middleware

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/nickredmond/lambda-ambr-payment-service/internal/logging"
)

// Audit logs one structured line per request once the handler chain has run.
func Audit(logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		ctx := c.UserContext()
		log := logging.FromContext(ctx, logger)
		attrs := []any{
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Int("status", c.Response().StatusCode()),
			slog.Duration("duration", time.Since(start)),
			slog.String("ip", c.IP()),
		}
		if err != nil {
			attrs = append(attrs, slog.Any("error", err))
			log.ErrorContext(ctx, "request completed", attrs...)
			return err
		}

		log.InfoContext(ctx, "request completed", attrs...)
		return nil
	}
}
