package funding

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrCardDeclined is returned when the processor rejects the card.
	ErrCardDeclined = errors.New("card declined")
	// ErrRateLimited is returned when the processor throttles the request.
	ErrRateLimited = errors.New("processor rate limit exceeded")
	// ErrProcessorUnknown covers every other processor failure.
	ErrProcessorUnknown = errors.New("unknown processor error")
)

// Processor represents a connector to the external payment processor.
type Processor interface {
	CreateCustomer(ctx context.Context, input CustomerInput) (Customer, error)
}

// CustomerInput carries the card token and contact email for a new customer.
type CustomerInput struct {
	Source string
	Email  string
}

// Customer is the processor's record of a stored payment instrument.
type Customer struct {
	ID string
}

// StaticProcessor simulates a successful processor integration.
type StaticProcessor struct{}

// CreateCustomer approves every card with a synthetic customer id.
func (StaticProcessor) CreateCustomer(_ context.Context, _ CustomerInput) (Customer, error) {
	return Customer{ID: "cus_" + uuid.NewString()}, nil
}
