package secrets

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

var (
	// ErrDecrypt wraps any failure to turn a configured ciphertext into plaintext.
	ErrDecrypt = errors.New("decrypt secret")
	// ErrEmptySecret is returned when no ciphertext was configured.
	ErrEmptySecret = errors.New("secret not configured")
)

// Resolver decrypts configuration values once and keeps the plaintext for
// the lifetime of the process. There is no expiry or rotation.
type Resolver struct {
	decrypter Decrypter

	mu    sync.RWMutex
	cache map[string]string
	group singleflight.Group
}

// NewResolver builds a caching resolver around decrypter.
func NewResolver(decrypter Decrypter) *Resolver {
	return &Resolver{decrypter: decrypter, cache: make(map[string]string)}
}

// Resolve returns the plaintext for ciphertext. Concurrent first calls for the
// same value share a single decrypt. Failures are not cached.
func (r *Resolver) Resolve(ctx context.Context, ciphertext string) (string, error) {
	if ciphertext == "" {
		return "", fmt.Errorf("%w: %w", ErrDecrypt, ErrEmptySecret)
	}

	r.mu.RLock()
	plain, ok := r.cache[ciphertext]
	r.mu.RUnlock()
	if ok {
		return plain, nil
	}

	v, err, _ := r.group.Do(ciphertext, func() (any, error) {
		r.mu.RLock()
		cached, ok := r.cache[ciphertext]
		r.mu.RUnlock()
		if ok {
			return cached, nil
		}

		plain, err := r.decrypter.Decrypt(ctx, ciphertext)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrDecrypt, err)
		}

		r.mu.Lock()
		r.cache[ciphertext] = plain
		r.mu.Unlock()
		return plain, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}
