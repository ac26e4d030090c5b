package funding

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// StripeProcessor creates customers through the Stripe API.
type StripeProcessor struct {
	api *client.API
}

// NewStripeProcessor builds a processor authenticated with secretKey.
func NewStripeProcessor(secretKey string) *StripeProcessor {
	return &StripeProcessor{api: client.New(secretKey, nil)}
}

// CreateCustomer registers the tokenized card as a new Stripe customer.
func (p *StripeProcessor) CreateCustomer(ctx context.Context, input CustomerInput) (Customer, error) {
	params := &stripe.CustomerParams{
		Source: stripe.String(input.Source),
		Email:  stripe.String(input.Email),
	}
	params.Context = ctx

	c, err := p.api.Customers.New(params)
	if err != nil {
		return Customer{}, classifyStripeError(err)
	}
	return Customer{ID: c.ID}, nil
}

func classifyStripeError(err error) error {
	var serr *stripe.Error
	if !errors.As(err, &serr) {
		return fmt.Errorf("%w: %w", ErrProcessorUnknown, err)
	}
	switch {
	case serr.Type == stripe.ErrorTypeCard:
		return fmt.Errorf("%w: %s", ErrCardDeclined, serr.Msg)
	case serr.HTTPStatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", ErrRateLimited, serr.Msg)
	default:
		return fmt.Errorf("%w: %w", ErrProcessorUnknown, err)
	}
}
