package config

import (
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("MONGODB_ATLAS_CLUSTER_URI", "Y2lwaGVy")
	t.Setenv("JWT_SECRET_KEY", "a2V5")
	t.Setenv("STRIPE_SECRET_KEY", "c2s=")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.SecretsMode != SecretsModeKMS {
		t.Fatalf("expected kms secrets mode, got %s", cfg.SecretsMode)
	}
	if cfg.StoreBackend != BackendMongo {
		t.Fatalf("expected mongo backend, got %s", cfg.StoreBackend)
	}
	if cfg.DatabaseName != "ambr" {
		t.Fatalf("expected database ambr, got %s", cfg.DatabaseName)
	}
	if cfg.Address() != ":8080" {
		t.Fatalf("unexpected address %s", cfg.Address())
	}
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("IDEMPOTENCY_TTL_SECONDS", "90")
	t.Setenv("REQUEST_TIMEOUT", "3s")
	t.Setenv("STORE_BACKEND", "Postgres")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.IdempotencyTTL != 90*time.Second {
		t.Fatalf("expected 90s idempotency ttl, got %s", cfg.IdempotencyTTL)
	}
	if cfg.RequestTimeout != 3*time.Second {
		t.Fatalf("expected 3s request timeout, got %s", cfg.RequestTimeout)
	}
	if cfg.StoreBackend != BackendPostgres {
		t.Fatalf("expected postgres backend, got %s", cfg.StoreBackend)
	}
}

func TestLoadRequiresSecrets(t *testing.T) {
	t.Setenv("MONGODB_ATLAS_CLUSTER_URI", "")
	t.Setenv("JWT_SECRET_KEY", "a2V5")
	t.Setenv("STRIPE_SECRET_KEY", "c2s=")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when connection string is missing")
	}

	t.Setenv("STORE_BACKEND", "memory")
	if _, err := Load(); err != nil {
		t.Fatalf("memory backend should not need a connection string: %v", err)
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	setRequired(t)
	t.Setenv("STORE_BACKEND", "cassandra")

	if _, err := Load(); err == nil {
		t.Fatal("expected unsupported backend error")
	}
}
