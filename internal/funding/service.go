package funding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nickredmond/lambda-ambr-payment-service/internal/identity"
)

var (
	// ErrSaveCard means the processor customer exists but the user's
	// payment-method list could not be updated. The customer is not removed.
	ErrSaveCard = errors.New("save new payment method")
	// ErrMissingPaymentMethod means no processor token was supplied.
	ErrMissingPaymentMethod = errors.New("payment method token is required")
)

// Manager makes sure a payment request is backed by a processor customer.
type Manager struct {
	processor Processor
	users     identity.Repository
	logger    *slog.Logger
}

// NewManager builds a payment-method manager.
func NewManager(processor Processor, users identity.Repository, logger *slog.Logger) *Manager {
	if processor == nil {
		processor = StaticProcessor{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{processor: processor, users: users, logger: logger}
}

// Ensure returns the processor customer id to charge. For a new method the
// card token is turned into a customer and appended to the user's list;
// otherwise the supplied token id is already a customer id.
func (m *Manager) Ensure(ctx context.Context, user identity.User, method identity.PaymentMethod, isNew bool) (string, error) {
	if strings.TrimSpace(method.TokenID) == "" {
		return "", ErrMissingPaymentMethod
	}
	if !isNew {
		return method.TokenID, nil
	}

	customer, err := m.processor.CreateCustomer(ctx, CustomerInput{Source: method.TokenID, Email: user.Email})
	if err != nil {
		return "", err
	}

	methods := make([]identity.PaymentMethod, 0, len(user.PaymentMethods)+1)
	methods = append(methods, user.PaymentMethods...)
	methods = append(methods, identity.PaymentMethod{
		TokenID:        customer.ID,
		LastFourDigits: method.LastFourDigits,
		CardBrand:      method.CardBrand,
	})

	if err := m.users.SetPaymentMethods(ctx, user.Email, methods); err != nil {
		m.logger.ErrorContext(ctx, "processor customer created but payment method not saved",
			slog.String("user_id", user.ID),
			slog.String("customer_id", customer.ID),
			slog.Any("error", err),
		)
		return "", fmt.Errorf("%w: %w", ErrSaveCard, err)
	}
	return customer.ID, nil
}
