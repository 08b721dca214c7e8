// pkg/memcache/trip_locks.go
package mem

import (
	"sync"
)

// TripLocks serializes mutating requests per trip. Every itinerary write
// follows read-then-replace-all; without this lock two overlapping requests
// for the same trip would silently discard each other's edits.
type TripLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewTripLocks() *TripLocks {
	return &TripLocks{
		locks: make(map[string]*sync.Mutex),
	}
}

// Lock acquires the trip's mutex and returns its unlock func. Entries are
// never evicted; one mutex per active trip id is a negligible footprint.
func (t *TripLocks) Lock(tripID string) func() {
	t.mu.Lock()
	l, ok := t.locks[tripID]
	if !ok {
		l = &sync.Mutex{}
		t.locks[tripID] = l
	}
	t.mu.Unlock()

	l.Lock()
	return l.Unlock
}
