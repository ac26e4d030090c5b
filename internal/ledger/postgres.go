package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresLedger persists payment submissions in PostgreSQL.
type PostgresLedger struct {
	db *pgxpool.Pool
}

// NewPostgresLedger constructs a Postgres-backed ledger implementation.
func NewPostgresLedger(db *pgxpool.Pool) *PostgresLedger {
	return &PostgresLedger{db: db}
}

// Insert stores sub under a fresh id.
func (l *PostgresLedger) Insert(ctx context.Context, sub Submission) (Submission, error) {
	id := uuid.New()
	_, err := l.db.Exec(ctx, `INSERT INTO payments (id, user_id, stripe_customer_id, bid_type, auction_id, amount, status, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		id, sub.UserID, sub.CustomerID, string(sub.BidType), sub.AuctionID, sub.Amount, sub.Status, sub.CreatedAt.UTC())
	if err != nil {
		return Submission{}, err
	}
	sub.ID = id.String()
	return sub, nil
}
