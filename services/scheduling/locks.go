package scheduling

import "sync"

// lockRegistry hands out one mutex per business id so availability-mutating
// operations are serialized per business, never behind a process-wide lock.
type lockRegistry struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// forBusiness returns the lock for a given business, creating one if it
// doesn't exist.
func (r *lockRegistry) forBusiness(businessID string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.locks == nil {
		r.locks = make(map[string]*sync.Mutex)
	}
	lock, exists := r.locks[businessID]
	if !exists {
		lock = &sync.Mutex{}
		r.locks[businessID] = lock
	}
	return lock
}
