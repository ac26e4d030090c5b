package payments

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/nickredmond/lambda-ambr-payment-service/internal/auction"
	"github.com/nickredmond/lambda-ambr-payment-service/internal/auth"
	"github.com/nickredmond/lambda-ambr-payment-service/internal/funding"
	"github.com/nickredmond/lambda-ambr-payment-service/internal/identity"
	"github.com/nickredmond/lambda-ambr-payment-service/internal/ledger"
	"github.com/nickredmond/lambda-ambr-payment-service/internal/notification"
	"github.com/nickredmond/lambda-ambr-payment-service/internal/secrets"
	"github.com/nickredmond/lambda-ambr-payment-service/internal/viewing"
)

// Stores groups the repositories a submission touches.
type Stores struct {
	Users    identity.Repository
	Auctions auction.Repository
	Payments ledger.Ledger
}

// Environment supplies the process-wide resources a submission needs. The
// first call of each method may decrypt and connect; later calls are cached.
type Environment interface {
	Stores(ctx context.Context) (Stores, error)
	TokenKey(ctx context.Context) (string, error)
	Processor(ctx context.Context) (funding.Processor, error)
}

// Result is a successful submission.
type Result struct {
	HighestBidAmount    int64
	IsHighestBid        bool
	IsPermissionExpires bool
	SubmissionID        string
}

// Service runs a payment submission through every stage in order and stops
// at the first failure.
type Service struct {
	env      Environment
	verifier *auth.Verifier
	notifier notification.Notifier
	logger   *slog.Logger
	now      func() time.Time
}

// NewService wires a payment service. notifier may be nil.
func NewService(env Environment, verifier *auth.Verifier, notifier notification.Notifier, logger *slog.Logger) *Service {
	if verifier == nil {
		verifier = auth.NewVerifier()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{env: env, verifier: verifier, notifier: notifier, logger: logger, now: time.Now}
}

// WithClock overrides the clock used for permission expiry.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Submit records the payment, settles the highest bid and grants the
// bidder permission to view bids. Every returned error is a *Failure.
func (s *Service) Submit(ctx context.Context, req Request) (Result, error) {
	if strings.TrimSpace(req.UserToken) == "" {
		return Result{}, fail(ErrMissingToken, "", nil)
	}
	if err := req.validate(); err != nil {
		return Result{}, fail(ErrInvalidRequest, "", err)
	}

	stores, err := s.env.Stores(ctx)
	if err != nil {
		if errors.Is(err, secrets.ErrDecrypt) {
			return Result{}, fail(ErrDecryptConnection, "", err)
		}
		return Result{}, fail(ErrConnectStore, "", err)
	}

	key, err := s.env.TokenKey(ctx)
	if err != nil {
		return Result{}, fail(ErrDecryptTokenKey, "", err)
	}
	ident, err := s.verifier.Verify(req.UserToken, key)
	if err != nil {
		return Result{}, fail(ErrAuthenticate, "", err)
	}

	user, err := identity.NewDirectory(stores.Users).Lookup(ctx, ident.ID)
	if err != nil {
		return Result{}, fail(ErrFindUser, ident.ID, err)
	}

	processor, err := s.env.Processor(ctx)
	if err != nil {
		return Result{}, fail(ErrDecryptProcessorKey, user.ID, err)
	}
	customerID, err := funding.NewManager(processor, stores.Users, s.logger).
		Ensure(ctx, user, req.PaymentMethod.toIdentity(), req.IsNewPaymentMethod)
	if err != nil {
		return Result{}, fail(ErrPaymentMethod, user.ID, err)
	}

	bidType := auction.BidType(req.BidType)
	sub, err := ledger.NewRecorder(stores.Payments).
		Record(ctx, user.ID, customerID, bidType, req.AuctionID, req.PaymentAmount)
	if err != nil {
		return Result{}, fail(ErrSavePayment, user.ID, err)
	}

	outcome, err := auction.NewArbiter(stores.Auctions, s.notifier, s.logger).
		Evaluate(ctx, req.AuctionID, req.PaymentAmount, user.ID)
	if err != nil {
		if errors.Is(err, auction.ErrUpdateFailed) {
			return Result{}, fail(ErrSetHighestBid, user.ID, err)
		}
		return Result{}, fail(ErrFindAuction, user.ID, err)
	}

	granted, err := viewing.NewGrantor(stores.Users, s.logger).WithClock(s.now).
		Grant(ctx, user, req.AuctionID, bidType, outcome.HighestAmount, outcome.IsNewHighest)
	if err != nil {
		return Result{}, fail(ErrUpdatePermissions, user.ID, err)
	}

	return Result{
		HighestBidAmount:    granted.HighestBidAmount,
		IsHighestBid:        granted.IsHighestBid,
		IsPermissionExpires: granted.Expires,
		SubmissionID:        sub.ID,
	}, nil
}
