package identity

import (
	"context"
	"sync"
)

type memoryRepository struct {
	mu    sync.RWMutex
	users map[string]User
}

// NewMemoryRepository builds an in-memory user store for testing.
func NewMemoryRepository(users ...User) Repository {
	r := &memoryRepository{users: make(map[string]User)}
	for _, u := range users {
		r.users[u.Email] = clone(u)
	}
	return r
}

func (r *memoryRepository) FindByEmail(_ context.Context, email string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[email]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return clone(user), nil
}

func (r *memoryRepository) SetPaymentMethods(_ context.Context, email string, methods []PaymentMethod) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[email]
	if !ok {
		return ErrUserNotFound
	}
	user.PaymentMethods = append([]PaymentMethod(nil), methods...)
	r.users[email] = user
	return nil
}

func (r *memoryRepository) SetBidViewPermissions(_ context.Context, userID string, permissions []BidViewPermission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for email, user := range r.users {
		if user.ID == userID {
			user.BidViewPermissions = append([]BidViewPermission(nil), permissions...)
			r.users[email] = user
			return nil
		}
	}
	return ErrUserNotFound
}

func clone(u User) User {
	u.PaymentMethods = append([]PaymentMethod(nil), u.PaymentMethods...)
	u.BidViewPermissions = append([]BidViewPermission(nil), u.BidViewPermissions...)
	return u
}
