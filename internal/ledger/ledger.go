package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nickredmond/lambda-ambr-payment-service/internal/auction"
)

var (
	// ErrPersistence wraps any failure to store a payment submission.
	ErrPersistence = errors.New("save payment submission")
	// ErrInvalidSubmission rejects submissions missing required references.
	// It is always returned wrapped in ErrPersistence.
	ErrInvalidSubmission = errors.New("invalid payment submission")
)

const (
	// StatusPending is the only status assigned when a submission is recorded.
	StatusPending = "pending"
)

// Submission is one intended payment toward an auction. It references the
// user and auction by id only.
type Submission struct {
	ID         string
	UserID     string
	CustomerID string
	BidType    auction.BidType
	AuctionID  string
	Amount     int64
	Status     string
	CreatedAt  time.Time
}

// Ledger defines the contract implemented by submission stores.
type Ledger interface {
	Insert(ctx context.Context, sub Submission) (Submission, error)
}

// Recorder records pending submissions. It never retries.
type Recorder struct {
	ledger Ledger
	now    func() time.Time
}

// NewRecorder builds a recorder over ledger.
func NewRecorder(l Ledger) *Recorder {
	return &Recorder{ledger: l, now: time.Now}
}

// Record inserts a pending submission and returns it with its assigned id.
func (r *Recorder) Record(ctx context.Context, userID, customerID string, bidType auction.BidType, auctionID string, amount int64) (Submission, error) {
	if userID == "" || customerID == "" || auctionID == "" {
		return Submission{}, fmt.Errorf("%w: %w", ErrPersistence, ErrInvalidSubmission)
	}
	sub := Submission{
		UserID:     userID,
		CustomerID: customerID,
		BidType:    bidType,
		AuctionID:  auctionID,
		Amount:     amount,
		Status:     StatusPending,
		CreatedAt:  r.now().UTC(),
	}
	saved, err := r.ledger.Insert(ctx, sub)
	if err != nil {
		return Submission{}, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return saved, nil
}
