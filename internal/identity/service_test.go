package identity

import (
	"context"
	"errors"
	"testing"
	"time"
)

type failingRepository struct {
	Repository
	err error
}

func (r failingRepository) FindByEmail(context.Context, string) (User, error) {
	return User{}, r.err
}

func TestDirectoryLookup(t *testing.T) {
	repo := NewMemoryRepository(User{ID: "u1", Email: "bidder@example.com"})
	dir := NewDirectory(repo)
	ctx := context.Background()

	user, err := dir.Lookup(ctx, "bidder@example.com")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if user.ID != "u1" {
		t.Fatalf("unexpected user %+v", user)
	}

	if _, err := dir.Lookup(ctx, "nobody@example.com"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if _, err := dir.Lookup(ctx, "  "); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound for blank id, got %v", err)
	}
}

func TestDirectoryLookupDistinguishesTransportErrors(t *testing.T) {
	dir := NewDirectory(failingRepository{err: errors.New("connection reset")})

	_, err := dir.Lookup(context.Background(), "bidder@example.com")
	if !errors.Is(err, ErrLookup) {
		t.Fatalf("expected ErrLookup, got %v", err)
	}
	if errors.Is(err, ErrUserNotFound) {
		t.Fatal("transport failure must not look like a missing user")
	}
}

func TestMemoryRepositoryReturnsCopies(t *testing.T) {
	repo := NewMemoryRepository(User{ID: "u1", Email: "a@example.com"})
	ctx := context.Background()

	user, _ := repo.FindByEmail(ctx, "a@example.com")
	user.PaymentMethods = append(user.PaymentMethods, PaymentMethod{TokenID: "cus_1"})

	again, _ := repo.FindByEmail(ctx, "a@example.com")
	if len(again.PaymentMethods) != 0 {
		t.Fatal("mutating a returned user must not change the store")
	}

	if err := repo.SetBidViewPermissions(ctx, "missing", nil); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if err := repo.SetPaymentMethods(ctx, "missing@example.com", nil); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestPermissionExpired(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	later := now.Add(time.Minute)

	if (BidViewPermission{AuctionID: "a"}).Expired(now) {
		t.Fatal("permanent permission must never expire")
	}
	p := BidViewPermission{AuctionID: "a", Expiry: &later}
	if p.Expired(now) {
		t.Fatal("permission should still be valid")
	}
	if !p.Expired(later) {
		t.Fatal("permission should be expired at its expiry instant")
	}
}
