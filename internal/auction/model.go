package auction

import "errors"

var (
	// ErrNotFound indicates no auction exists with the requested id.
	ErrNotFound = errors.New("auction not found")
	// ErrUpdateFailed means the highest-bid write errored, or matched no
	// auction even though the auction was just read. The request must not
	// continue.
	ErrUpdateFailed = errors.New("highest bid update failed")
	// ErrInvalidBidType is returned for bid types other than bid or donation.
	ErrInvalidBidType = errors.New("invalid bid type")
)

// BidType distinguishes competitive bids from donations.
type BidType string

const (
	BidTypeBid      BidType = "bid"
	BidTypeDonation BidType = "donation"
)

// Valid reports whether t is a known bid type.
func (t BidType) Valid() bool {
	return t == BidTypeBid || t == BidTypeDonation
}

// Bid is a bidder and the amount they offered, in the smallest currency unit.
type Bid struct {
	UserID string
	Amount int64
}

// Auction holds the current highest bid snapshot. HighestBid is nil until the
// first bid lands; afterwards its amount never decreases.
type Auction struct {
	ID         string
	HighestBid *Bid
}

// OutbidBy reports whether amount would become the new highest bid. Ties
// keep the earlier bidder.
func (a Auction) OutbidBy(amount int64) bool {
	return a.HighestBid == nil || amount > a.HighestBid.Amount
}

// HighestAmount returns the current highest amount, or 0 with no bids.
func (a Auction) HighestAmount() int64 {
	if a.HighestBid == nil {
		return 0
	}
	return a.HighestBid.Amount
}
