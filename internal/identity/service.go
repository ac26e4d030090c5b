package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrLookup wraps transport or decoding failures while reading a user, as
// opposed to the user simply not existing.
var ErrLookup = errors.New("user lookup failed")

// Directory resolves verified identities to user records.
type Directory struct {
	repo Repository
}

// NewDirectory creates a directory over repo.
func NewDirectory(repo Repository) *Directory {
	return &Directory{repo: repo}
}

// Lookup finds the user whose email matches the verified identity.
func (d *Directory) Lookup(ctx context.Context, id string) (User, error) {
	email := strings.TrimSpace(id)
	if email == "" {
		return User{}, ErrUserNotFound
	}
	user, err := d.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return User{}, err
		}
		return User{}, fmt.Errorf("%w: %w", ErrLookup, err)
	}
	return user, nil
}
