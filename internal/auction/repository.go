package auction

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists auctions.
type Repository interface {
	FindByID(ctx context.Context, id string) (Auction, error)
	// RaiseHighestBid stores bid as the highest bid only when the auction has
	// no highest bid or bid.Amount is strictly greater than the stored one.
	// It reports whether the write was applied.
	RaiseHighestBid(ctx context.Context, auctionID string, bid Bid) (bool, error)
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed auction repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// FindByID fetches an auction and its highest bid.
func (r *PostgresRepository) FindByID(ctx context.Context, id string) (Auction, error) {
	row := r.db.QueryRow(ctx, `SELECT id, highest_bid_user_id, highest_bid_amount FROM auctions WHERE id = $1`, id)
	var (
		a       Auction
		bidder  *string
		highest *int64
	)
	if err := row.Scan(&a.ID, &bidder, &highest); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Auction{}, ErrNotFound
		}
		return Auction{}, err
	}
	if highest != nil {
		a.HighestBid = &Bid{Amount: *highest}
		if bidder != nil {
			a.HighestBid.UserID = *bidder
		}
	}
	return a, nil
}

// RaiseHighestBid performs the conditional update in a single statement.
func (r *PostgresRepository) RaiseHighestBid(ctx context.Context, auctionID string, bid Bid) (bool, error) {
	cmd, err := r.db.Exec(ctx, `UPDATE auctions
        SET highest_bid_user_id = $2, highest_bid_amount = $3, updated_at = NOW()
        WHERE id = $1 AND (highest_bid_amount IS NULL OR highest_bid_amount < $3)`,
		auctionID, bid.UserID, bid.Amount)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() == 1, nil
}
