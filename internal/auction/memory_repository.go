package auction

import (
	"context"
	"sync"
)

type memoryRepository struct {
	mu       sync.Mutex
	auctions map[string]Auction
	writes   int
}

// NewMemoryRepository builds an in-memory auction store for testing.
func NewMemoryRepository(auctions ...Auction) Repository {
	r := &memoryRepository{auctions: make(map[string]Auction)}
	for _, a := range auctions {
		r.auctions[a.ID] = copyAuction(a)
	}
	return r
}

func (r *memoryRepository) FindByID(_ context.Context, id string) (Auction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.auctions[id]
	if !ok {
		return Auction{}, ErrNotFound
	}
	return copyAuction(a), nil
}

func (r *memoryRepository) RaiseHighestBid(_ context.Context, auctionID string, bid Bid) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes++
	a, ok := r.auctions[auctionID]
	if !ok || !a.OutbidBy(bid.Amount) {
		return false, nil
	}
	a.HighestBid = &bid
	r.auctions[auctionID] = a
	return true, nil
}

func copyAuction(a Auction) Auction {
	if a.HighestBid != nil {
		b := *a.HighestBid
		a.HighestBid = &b
	}
	return a
}
