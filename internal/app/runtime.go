package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/nickredmond/lambda-ambr-payment-service/internal/config"
	"github.com/nickredmond/lambda-ambr-payment-service/internal/funding"
	"github.com/nickredmond/lambda-ambr-payment-service/internal/payments"
	"github.com/nickredmond/lambda-ambr-payment-service/internal/secrets"
)

// ErrNotConnected is returned by Ping before the first request opened the store.
var ErrNotConnected = errors.New("store not connected yet")

// Backend is an opened store together with its lifecycle hooks.
type Backend struct {
	Stores payments.Stores
	Ping   func(ctx context.Context) error
	Close  func(ctx context.Context) error
}

var _ payments.Environment = (*Runtime)(nil)

// Opener connects the configured backend. connection is the decrypted
// connection string and is empty for the memory backend.
type Opener func(ctx context.Context, cfg config.Config, connection string) (Backend, error)

// Runtime holds the process-wide state shared by every request: decrypted
// secrets, the store connection and the processor client. Everything is
// created on first use and reused afterwards. Failures are never cached.
type Runtime struct {
	cfg      config.Config
	resolver *secrets.Resolver
	open     Opener
	logger   *slog.Logger

	mu        sync.Mutex
	backend   *Backend
	processor funding.Processor
}

// NewRuntime builds a runtime for cfg using resolver for every secret.
func NewRuntime(cfg config.Config, resolver *secrets.Resolver, logger *slog.Logger) *Runtime {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runtime{cfg: cfg, resolver: resolver, open: OpenBackend, logger: logger}
}

// WithOpener replaces the backend opener; used by tests.
func (r *Runtime) WithOpener(open Opener) *Runtime {
	r.open = open
	return r
}

// Stores returns the shared repositories, connecting on first use.
func (r *Runtime) Stores(ctx context.Context) (payments.Stores, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.backend != nil {
		return r.backend.Stores, nil
	}

	var connection string
	if r.cfg.StoreBackend != config.BackendMemory {
		plain, err := r.resolver.Resolve(ctx, r.cfg.ConnectionCiphertext)
		if err != nil {
			return payments.Stores{}, err
		}
		connection = plain
	}

	r.logger.InfoContext(ctx, "connecting to store", slog.String("backend", r.cfg.StoreBackend))
	backend, err := r.open(ctx, r.cfg, connection)
	if err != nil {
		return payments.Stores{}, fmt.Errorf("open %s store: %w", r.cfg.StoreBackend, err)
	}
	r.backend = &backend
	return backend.Stores, nil
}

// TokenKey returns the decrypted token-signing key.
func (r *Runtime) TokenKey(ctx context.Context) (string, error) {
	return r.resolver.Resolve(ctx, r.cfg.TokenKeyCiphertext)
}

// Processor returns the payment processor client, decrypting its key on
// first use.
func (r *Runtime) Processor(ctx context.Context) (funding.Processor, error) {
	if r.cfg.Processor == config.ProcessorStatic {
		return funding.StaticProcessor{}, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.processor != nil {
		return r.processor, nil
	}
	key, err := r.resolver.Resolve(ctx, r.cfg.ProcessorKeyCiphertext)
	if err != nil {
		return nil, err
	}
	r.processor = funding.NewStripeProcessor(key)
	return r.processor, nil
}

// Ping checks the store connection. It does not connect.
func (r *Runtime) Ping(ctx context.Context) error {
	r.mu.Lock()
	backend := r.backend
	r.mu.Unlock()
	if backend == nil {
		return ErrNotConnected
	}
	if backend.Ping == nil {
		return nil
	}
	return backend.Ping(ctx)
}

// Close releases the store connection if one was opened.
func (r *Runtime) Close(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.backend == nil || r.backend.Close == nil {
		r.backend = nil
		return nil
	}
	err := r.backend.Close(ctx)
	r.backend = nil
	return err
}
