package payments

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/nickredmond/lambda-ambr-payment-service/internal/logging"
	"github.com/nickredmond/lambda-ambr-payment-service/internal/middleware"
)

// Handler adapts the payment service to its transports.
type Handler struct {
	service *Service
	logger  *slog.Logger
	timeout time.Duration
}

// NewHandler constructs a payment handler. A zero timeout disables the
// per-request deadline.
func NewHandler(service *Service, logger *slog.Logger, timeout time.Duration) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: service, logger: logger, timeout: timeout}
}

// Handle processes one submission and always returns an envelope.
func (h *Handler) Handle(ctx context.Context, req Request) Response {
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	log := logging.FromContext(ctx, h.logger)
	res, err := h.service.Submit(ctx, req)
	resp := Emit(req, res, err)

	if err != nil {
		attrs := []any{
			slog.String("auction_id", req.AuctionID),
			slog.String("bid_type", req.BidType),
			slog.Int("status", resp.StatusCode),
			slog.Any("error", err),
		}
		var failure *Failure
		if errors.As(err, &failure) {
			attrs = append(attrs, slog.String("stage", failure.Stage.Error()), slog.String("user_id", failure.UserID))
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			log.ErrorContext(ctx, "payment submission failed", attrs...)
		} else {
			log.WarnContext(ctx, "payment submission rejected", attrs...)
		}
		return resp
	}

	log.InfoContext(ctx, "payment submission accepted",
		slog.String("submission_id", res.SubmissionID),
		slog.String("auction_id", req.AuctionID),
		slog.String("bid_type", req.BidType),
		slog.Int64("amount", req.PaymentAmount),
		slog.Bool("is_highest_bid", res.IsHighestBid),
	)
	return resp
}

// HandleEvent decodes a raw event and handles it. An event that does not
// decode still gets a 400 envelope.
func (h *Handler) HandleEvent(ctx context.Context, payload json.RawMessage) Response {
	req, err := DecodeRequest(payload)
	if err != nil {
		return h.reject(ctx, err)
	}
	return h.Handle(ctx, req)
}

// Submit is the HTTP entry point for a payment submission.
func (h *Handler) Submit(c *fiber.Ctx) error {
	var resp Response
	req, err := DecodeRequest(c.Body())
	if err != nil {
		resp = h.reject(c.UserContext(), err)
	} else {
		if req.UserToken == "" {
			if token, ok := c.Locals(middleware.UserTokenKey).(string); ok {
				req.UserToken = token
			}
		}
		resp = h.Handle(c.UserContext(), req)
	}

	for k, v := range resp.Headers {
		c.Set(k, v)
	}
	return c.Status(resp.StatusCode).SendString(resp.Body)
}

func (h *Handler) reject(ctx context.Context, err error) Response {
	resp := Emit(Request{}, Result{}, fail(ErrInvalidRequest, "", err))
	logging.FromContext(ctx, h.logger).WarnContext(ctx, "payment submission rejected",
		slog.Int("status", resp.StatusCode),
		slog.Any("error", err),
	)
	return resp
}
