package identity

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrUserNotFound indicates no user record matched the lookup or update.
	ErrUserNotFound = errors.New("user not found")
)

// Repository persists users.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (User, error)
	SetPaymentMethods(ctx context.Context, email string, methods []PaymentMethod) error
	SetBidViewPermissions(ctx context.Context, userID string, permissions []BidViewPermission) error
}

// PostgresRepository implements Repository using PostgreSQL with the
// embedded lists stored as jsonb.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed identity repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// FindByEmail fetches a user by email address.
func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (User, error) {
	row := r.db.QueryRow(ctx, `SELECT id, email, payment_methods, bid_view_permissions FROM users WHERE email = $1`, email)
	var user User
	if err := row.Scan(&user.ID, &user.Email, &user.PaymentMethods, &user.BidViewPermissions); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		return User{}, err
	}
	return user, nil
}

// SetPaymentMethods replaces the stored payment-method list.
func (r *PostgresRepository) SetPaymentMethods(ctx context.Context, email string, methods []PaymentMethod) error {
	if methods == nil {
		methods = []PaymentMethod{}
	}
	cmd, err := r.db.Exec(ctx, `UPDATE users SET payment_methods = $1 WHERE email = $2`, methods, email)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// SetBidViewPermissions replaces the stored permission list.
func (r *PostgresRepository) SetBidViewPermissions(ctx context.Context, userID string, permissions []BidViewPermission) error {
	if permissions == nil {
		permissions = []BidViewPermission{}
	}
	cmd, err := r.db.Exec(ctx, `UPDATE users SET bid_view_permissions = $1 WHERE id = $2`, permissions, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}
