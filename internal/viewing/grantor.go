package viewing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nickredmond/lambda-ambr-payment-service/internal/auction"
	"github.com/nickredmond/lambda-ambr-payment-service/internal/identity"
)

// BidViewWindow is how long a bid (not a donation) lets the bidder see bids.
const BidViewWindow = 5 * time.Minute

// ErrPersistPermission wraps a failed write of the user's permission list.
var ErrPersistPermission = errors.New("update bid view permissions")

// Result is what the caller reports back after a grant.
type Result struct {
	HighestBidAmount int64
	IsHighestBid     bool
	Expires          bool
}

// Grantor issues bid-viewing permissions.
type Grantor struct {
	users  identity.Repository
	now    func() time.Time
	logger *slog.Logger
}

// NewGrantor builds a grantor writing to users.
func NewGrantor(users identity.Repository, logger *slog.Logger) *Grantor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Grantor{users: users, now: time.Now, logger: logger}
}

// WithClock overrides the clock; used by tests.
func (g *Grantor) WithClock(now func() time.Time) *Grantor {
	g.now = now
	return g
}

// Grant replaces user's permission for auctionID and persists the full
// list. A write that matches no user is logged and otherwise ignored.
func (g *Grantor) Grant(ctx context.Context, user identity.User, auctionID string, bidType auction.BidType, highestAmount int64, isHighest bool) (Result, error) {
	perm, err := NewPermission(auctionID, bidType, g.now())
	if err != nil {
		return Result{}, err
	}

	updated := Replace(user.BidViewPermissions, perm)
	if err := g.users.SetBidViewPermissions(ctx, user.ID, updated); err != nil {
		if !errors.Is(err, identity.ErrUserNotFound) {
			return Result{}, fmt.Errorf("%w: %w", ErrPersistPermission, err)
		}
		g.logger.ErrorContext(ctx, "no user matched bid view permission update",
			slog.String("user_id", user.ID),
			slog.String("auction_id", auctionID),
		)
	}

	return Result{
		HighestBidAmount: highestAmount,
		IsHighestBid:     isHighest,
		Expires:          bidType != auction.BidTypeDonation,
	}, nil
}

// NewPermission derives the permission for bidType: bids expire after
// BidViewWindow, donations never expire.
func NewPermission(auctionID string, bidType auction.BidType, now time.Time) (identity.BidViewPermission, error) {
	switch bidType {
	case auction.BidTypeBid:
		expiry := now.Add(BidViewWindow)
		return identity.BidViewPermission{AuctionID: auctionID, Expiry: &expiry}, nil
	case auction.BidTypeDonation:
		return identity.BidViewPermission{AuctionID: auctionID}, nil
	default:
		return identity.BidViewPermission{}, fmt.Errorf("%w: %q", auction.ErrInvalidBidType, bidType)
	}
}

// Replace drops every permission for perm.AuctionID and appends perm.
// The input slice is not modified.
func Replace(existing []identity.BidViewPermission, perm identity.BidViewPermission) []identity.BidViewPermission {
	out := make([]identity.BidViewPermission, 0, len(existing)+1)
	for _, p := range existing {
		if p.AuctionID != perm.AuctionID {
			out = append(out, p)
		}
	}
	return append(out, perm)
}
