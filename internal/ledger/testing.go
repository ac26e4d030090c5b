package ledger

// Submissions is a test helper returning everything recorded by the in-memory ledger.
func Submissions(l Ledger) []Submission {
	if mem, ok := l.(*inMemoryLedger); ok {
		mem.mu.RLock()
		defer mem.mu.RUnlock()
		return append([]Submission(nil), mem.submissions...)
	}
	return nil
}

// FailInserts is a test helper making the in-memory ledger reject every insert with err.
func FailInserts(l Ledger, err error) {
	if mem, ok := l.(*inMemoryLedger); ok {
		mem.mu.Lock()
		defer mem.mu.Unlock()
		mem.failWith = err
	}
}
