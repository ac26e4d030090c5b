package ledger

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

type inMemoryLedger struct {
	mu          sync.RWMutex
	submissions []Submission
	failWith    error
}

// NewInMemory creates a concurrency-safe in-memory ledger useful for unit tests.
func NewInMemory() Ledger {
	return &inMemoryLedger{}
}

func (l *inMemoryLedger) Insert(_ context.Context, sub Submission) (Submission, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.failWith != nil {
		return Submission{}, l.failWith
	}
	sub.ID = uuid.NewString()
	l.submissions = append(l.submissions, sub)
	return sub, nil
}
