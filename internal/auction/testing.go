package auction

// WriteCount is a test helper reporting how many conditional writes an
// in-memory repository has received.
func WriteCount(r Repository) int {
	if mem, ok := r.(*memoryRepository); ok {
		mem.mu.Lock()
		defer mem.mu.Unlock()
		return mem.writes
	}
	return 0
}

// Remove is a test helper deleting an auction from an in-memory repository.
func Remove(r Repository, id string) {
	if mem, ok := r.(*memoryRepository); ok {
		mem.mu.Lock()
		defer mem.mu.Unlock()
		delete(mem.auctions, id)
	}
}
