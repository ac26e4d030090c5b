package auction

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nickredmond/lambda-ambr-payment-service/internal/logging"
	"github.com/nickredmond/lambda-ambr-payment-service/internal/notification"
)

type recordingNotifier struct {
	mu   sync.Mutex
	sent []notification.Message
}

func (n *recordingNotifier) Send(_ context.Context, msg notification.Message) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg)
	return nil
}

func TestArbiterEvaluate(t *testing.T) {
	tests := []struct {
		name          string
		existing      *Bid
		amount        int64
		wantHighest   bool
		wantAmount    int64
		wantWrites    int
		wantStoredAmt int64
	}{
		{name: "first_bid_wins", existing: nil, amount: 100, wantHighest: true, wantAmount: 100, wantWrites: 1, wantStoredAmt: 100},
		{name: "lower_bid_loses", existing: &Bid{UserID: "u0", Amount: 150}, amount: 100, wantHighest: false, wantAmount: 150, wantWrites: 0, wantStoredAmt: 150},
		{name: "tie_keeps_earlier_bidder", existing: &Bid{UserID: "u0", Amount: 100}, amount: 100, wantHighest: false, wantAmount: 100, wantWrites: 0, wantStoredAmt: 100},
		{name: "higher_bid_wins", existing: &Bid{UserID: "u0", Amount: 100}, amount: 101, wantHighest: true, wantAmount: 101, wantWrites: 1, wantStoredAmt: 101},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			repo := NewMemoryRepository(Auction{ID: "a1", HighestBid: tc.existing})
			arb := NewArbiter(repo, nil, logging.Discard())

			out, err := arb.Evaluate(ctx, "a1", tc.amount, "u1")
			require.NoError(t, err)
			require.Equal(t, tc.wantHighest, out.IsNewHighest)
			require.Equal(t, tc.wantAmount, out.HighestAmount)
			require.Equal(t, tc.wantWrites, WriteCount(repo))

			stored, err := repo.FindByID(ctx, "a1")
			require.NoError(t, err)
			require.Equal(t, tc.wantStoredAmt, stored.HighestAmount())
			if tc.wantHighest {
				require.Equal(t, "u1", stored.HighestBid.UserID)
			}
		})
	}
}

func TestArbiterUnknownAuction(t *testing.T) {
	arb := NewArbiter(NewMemoryRepository(), nil, logging.Discard())

	_, err := arb.Evaluate(context.Background(), "missing", 10, "u1")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestArbiterNotifiesPreviousBidder(t *testing.T) {
	notifier := &recordingNotifier{}
	repo := NewMemoryRepository(Auction{ID: "a1", HighestBid: &Bid{UserID: "u0", Amount: 50}})
	arb := NewArbiter(repo, notifier, logging.Discard())

	_, err := arb.Evaluate(context.Background(), "a1", 75, "u1")
	require.NoError(t, err)
	require.Len(t, notifier.sent, 1)
	require.Equal(t, notification.KindOutbid, notifier.sent[0].Kind)
	require.Equal(t, "u0", notifier.sent[0].Destination)

	// raising your own bid does not notify yourself
	_, err = arb.Evaluate(context.Background(), "a1", 80, "u1")
	require.NoError(t, err)
	require.Len(t, notifier.sent, 1)
}

// stubRepository lets tests control what the conditional write and the
// follow-up read observe.
type stubRepository struct {
	reads    []Auction
	readErrs []error
	applied  bool
	raiseErr error
	calls    int
}

func (s *stubRepository) FindByID(context.Context, string) (Auction, error) {
	i := s.calls
	s.calls++
	var err error
	if i < len(s.readErrs) {
		err = s.readErrs[i]
	}
	if err != nil {
		return Auction{}, err
	}
	return s.reads[i], nil
}

func (s *stubRepository) RaiseHighestBid(context.Context, string, Bid) (bool, error) {
	return s.applied, s.raiseErr
}

func TestArbiterLostRaceIsNotAFault(t *testing.T) {
	repo := &stubRepository{reads: []Auction{
		{ID: "a1", HighestBid: &Bid{UserID: "u0", Amount: 100}},
		{ID: "a1", HighestBid: &Bid{UserID: "u2", Amount: 200}},
	}}
	arb := NewArbiter(repo, nil, logging.Discard())

	out, err := arb.Evaluate(context.Background(), "a1", 150, "u1")
	require.NoError(t, err)
	require.False(t, out.IsNewHighest)
	require.Equal(t, int64(200), out.HighestAmount)
}

func TestArbiterUpdateMatchedNothing(t *testing.T) {
	t.Run("auction_vanished", func(t *testing.T) {
		repo := &stubRepository{
			reads:    []Auction{{ID: "a1"}, {}},
			readErrs: []error{nil, ErrNotFound},
		}
		_, err := NewArbiter(repo, nil, logging.Discard()).Evaluate(context.Background(), "a1", 10, "u1")
		require.ErrorIs(t, err, ErrUpdateFailed)
	})

	t.Run("still_outbid_but_not_written", func(t *testing.T) {
		repo := &stubRepository{reads: []Auction{{ID: "a1"}, {ID: "a1"}}}
		_, err := NewArbiter(repo, nil, logging.Discard()).Evaluate(context.Background(), "a1", 10, "u1")
		require.ErrorIs(t, err, ErrUpdateFailed)
	})

	t.Run("write_error", func(t *testing.T) {
		boom := errors.New("write concern timeout")
		repo := &stubRepository{reads: []Auction{{ID: "a1"}}, raiseErr: boom}
		_, err := NewArbiter(repo, nil, logging.Discard()).Evaluate(context.Background(), "a1", 10, "u1")
		require.ErrorIs(t, err, boom)
		require.ErrorIs(t, err, ErrUpdateFailed)
	})
}

func TestArbiterConcurrentBidsAreMonotonic(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository(Auction{ID: "a1"})
	arb := NewArbiter(repo, nil, logging.Discard())

	const bidders = 50
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners []int64
	)
	for i := 1; i <= bidders; i++ {
		wg.Add(1)
		go func(amount int64) {
			defer wg.Done()
			out, err := arb.Evaluate(ctx, "a1", amount, fmt.Sprintf("u%d", amount))
			if err != nil {
				t.Errorf("evaluate %d: %v", amount, err)
				return
			}
			if out.IsNewHighest {
				mu.Lock()
				winners = append(winners, amount)
				mu.Unlock()
			}
		}(int64(i))
	}
	wg.Wait()

	stored, err := repo.FindByID(ctx, "a1")
	require.NoError(t, err)
	require.Equal(t, int64(bidders), stored.HighestAmount())
	require.Equal(t, fmt.Sprintf("u%d", bidders), stored.HighestBid.UserID)
	require.Contains(t, winners, int64(bidders))
}

func TestArbiterSequenceKeepsMaximum(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository(Auction{ID: "a1"})
	arb := NewArbiter(repo, nil, logging.Discard())

	var highest int64
	for _, amount := range []int64{30, 10, 30, 45, 44, 45, 90, 1} {
		out, err := arb.Evaluate(ctx, "a1", amount, "u1")
		require.NoError(t, err)
		require.Equal(t, amount > highest, out.IsNewHighest)
		if amount > highest {
			highest = amount
		}
		require.Equal(t, highest, out.HighestAmount)
	}
}

func TestBidTypeValid(t *testing.T) {
	require.True(t, BidTypeBid.Valid())
	require.True(t, BidTypeDonation.Valid())
	require.False(t, BidType("pledge").Valid())
	require.False(t, BidType("").Valid())
}
