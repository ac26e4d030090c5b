package auction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nickredmond/lambda-ambr-payment-service/internal/notification"
)

// Outcome is the result of evaluating a candidate amount against an auction.
type Outcome struct {
	IsNewHighest bool
	// HighestAmount is the candidate when it won, otherwise the amount that
	// kept the lead.
	HighestAmount int64
}

// Arbiter decides whether a submitted amount becomes an auction's highest bid.
type Arbiter struct {
	repo     Repository
	notifier notification.Notifier
	logger   *slog.Logger
}

// NewArbiter constructs an arbiter. notifier may be nil.
func NewArbiter(repo Repository, notifier notification.Notifier, logger *slog.Logger) *Arbiter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Arbiter{repo: repo, notifier: notifier, logger: logger}
}

// Evaluate compares amount with the stored highest bid and, when it is
// strictly greater, records userID as the new highest bidder using one
// conditional write. A lower or equal amount causes no write.
func (a *Arbiter) Evaluate(ctx context.Context, auctionID string, amount int64, userID string) (Outcome, error) {
	current, err := a.repo.FindByID(ctx, auctionID)
	if err != nil {
		return Outcome{}, err
	}
	if !current.OutbidBy(amount) {
		return Outcome{IsNewHighest: false, HighestAmount: current.HighestAmount()}, nil
	}

	applied, err := a.repo.RaiseHighestBid(ctx, auctionID, Bid{UserID: userID, Amount: amount})
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: %w", ErrUpdateFailed, err)
	}
	if !applied {
		return a.resolveRejectedRaise(ctx, auctionID, amount)
	}

	a.notifyOutbid(ctx, auctionID, current.HighestBid, userID, amount)
	return Outcome{IsNewHighest: true, HighestAmount: amount}, nil
}

// resolveRejectedRaise re-reads the auction after the conditional write
// matched nothing. A concurrent higher (or equal) bid means this candidate
// simply lost; anything else is a consistency fault.
func (a *Arbiter) resolveRejectedRaise(ctx context.Context, auctionID string, amount int64) (Outcome, error) {
	latest, err := a.repo.FindByID(ctx, auctionID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Outcome{}, ErrUpdateFailed
		}
		return Outcome{}, err
	}
	if latest.OutbidBy(amount) {
		return Outcome{}, ErrUpdateFailed
	}
	a.logger.InfoContext(ctx, "highest bid raced by concurrent submission",
		slog.String("auction_id", auctionID),
		slog.Int64("amount", amount),
		slog.Int64("highest_amount", latest.HighestAmount()),
	)
	return Outcome{IsNewHighest: false, HighestAmount: latest.HighestAmount()}, nil
}

func (a *Arbiter) notifyOutbid(ctx context.Context, auctionID string, previous *Bid, userID string, amount int64) {
	if a.notifier == nil || previous == nil || previous.UserID == "" || previous.UserID == userID {
		return
	}
	err := a.notifier.Send(ctx, notification.Message{
		Kind:        notification.KindOutbid,
		Destination: previous.UserID,
		Subject:     auctionID,
		Body:        fmt.Sprintf("Your bid of %d was outbid with %d", previous.Amount, amount),
	})
	if err != nil {
		a.logger.WarnContext(ctx, "outbid notification failed", slog.String("auction_id", auctionID), slog.Any("error", err))
	}
}
