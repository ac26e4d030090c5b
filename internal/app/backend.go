package app

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/nickredmond/lambda-ambr-payment-service/internal/auction"
	"github.com/nickredmond/lambda-ambr-payment-service/internal/config"
	"github.com/nickredmond/lambda-ambr-payment-service/internal/identity"
	"github.com/nickredmond/lambda-ambr-payment-service/internal/infra"
	"github.com/nickredmond/lambda-ambr-payment-service/internal/ledger"
	"github.com/nickredmond/lambda-ambr-payment-service/internal/payments"
)

// OpenBackend is the default Opener. It connects to MongoDB or PostgreSQL,
// or builds empty in-memory stores.
func OpenBackend(ctx context.Context, cfg config.Config, connection string) (Backend, error) {
	switch cfg.StoreBackend {
	case config.BackendMongo:
		db, err := infra.NewMongoDatabase(ctx, connection, cfg.DatabaseName)
		if err != nil {
			return Backend{}, err
		}
		return Backend{
			Stores: payments.Stores{
				Users:    identity.NewMongoRepository(db),
				Auctions: auction.NewMongoRepository(db),
				Payments: ledger.NewMongoLedger(db),
			},
			Ping:  func(ctx context.Context) error { return db.Client().Ping(ctx, readpref.Primary()) },
			Close: func(ctx context.Context) error { return db.Client().Disconnect(ctx) },
		}, nil

	case config.BackendPostgres:
		if err := infra.MigratePostgres(connection); err != nil {
			return Backend{}, err
		}
		pool, err := infra.NewPostgresPool(ctx, connection)
		if err != nil {
			return Backend{}, err
		}
		return Backend{
			Stores: payments.Stores{
				Users:    identity.NewPostgresRepository(pool),
				Auctions: auction.NewPostgresRepository(pool),
				Payments: ledger.NewPostgresLedger(pool),
			},
			Ping: pool.Ping,
			Close: func(context.Context) error {
				pool.Close()
				return nil
			},
		}, nil

	case config.BackendMemory:
		return Backend{
			Stores: payments.Stores{
				Users:    identity.NewMemoryRepository(),
				Auctions: auction.NewMemoryRepository(),
				Payments: ledger.NewInMemory(),
			},
		}, nil

	default:
		return Backend{}, fmt.Errorf("unsupported store backend %q", cfg.StoreBackend)
	}
}
