package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nickredmond/lambda-ambr-payment-service/internal/middleware"
	"github.com/nickredmond/lambda-ambr-payment-service/internal/payments"
)

// RegisterPaymentRoutes wires payment endpoints.
func RegisterPaymentRoutes(r fiber.Router, h *payments.Handler, rateLimiter fiber.Handler) {
	handlers := []fiber.Handler{middleware.BearerToken()}
	if rateLimiter != nil {
		handlers = append(handlers, rateLimiter)
	}
	handlers = append(handlers, h.Submit)
	r.Post("/payments", handlers...)
}
