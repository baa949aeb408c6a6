package services

import (
	"sync"

	"campuslink_server/models"
)

// PairLocker serializes multi-step operations on a user pair (connection
// accept, intro room find-or-create). Locks are keyed on the canonical pair
// key so both orderings of the same pair contend on one mutex. Entries are
// kept for the life of the process; the set is bounded by the pairs actually
// touched.
type PairLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewPairLocker creates an empty locker.
func NewPairLocker() *PairLocker {
	return &PairLocker{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for the unordered pair (userA, userB).
func (l *PairLocker) Lock(userA, userB string) {
	l.pairMutex(userA, userB).Lock()
}

// Unlock releases the mutex for the unordered pair (userA, userB).
func (l *PairLocker) Unlock(userA, userB string) {
	l.pairMutex(userA, userB).Unlock()
}

func (l *PairLocker) pairMutex(userA, userB string) *sync.Mutex {
	key := models.PairKey(userA, userB)

	l.mu.Lock()
	defer l.mu.Unlock()

	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	return m
}
