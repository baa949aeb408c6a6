package socket

import (
	"sort"
	"sync"
)

// PresenceStore tracks which users currently hold an active realtime
// connection. Injectable so tests run against the in-memory store and a
// multi-instance deployment can plug in a shared backend.
type PresenceStore interface {
	// Set records userID as online behind connID, replacing any previous
	// connection for that user.
	Set(userID, connID string)

	// RemoveConn removes the entry holding connID and returns its user.
	// Matching is by connection id, not user id: a user who reconnected
	// already owns a newer connection, and the stale disconnect must not
	// knock them offline.
	RemoveConn(connID string) (userID string, removed bool)

	// OnlineUserIDs returns the current online set.
	OnlineUserIDs() []string

	// ConnID returns the connection currently registered for userID.
	ConnID(userID string) (string, bool)
}

// MemoryPresence is the single-process PresenceStore.
type MemoryPresence struct {
	mu     sync.RWMutex
	byUser map[string]string
}

// NewMemoryPresence creates an empty in-memory presence store.
func NewMemoryPresence() *MemoryPresence {
	return &MemoryPresence{byUser: make(map[string]string)}
}

func (p *MemoryPresence) Set(userID, connID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.byUser[userID] = connID
}

func (p *MemoryPresence) RemoveConn(connID string) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for userID, existing := range p.byUser {
		if existing == connID {
			delete(p.byUser, userID)
			return userID, true
		}
	}
	return "", false
}

func (p *MemoryPresence) OnlineUserIDs() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	ids := make([]string, 0, len(p.byUser))
	for userID := range p.byUser {
		ids = append(ids, userID)
	}
	sort.Strings(ids)
	return ids
}

func (p *MemoryPresence) ConnID(userID string) (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	connID, ok := p.byUser[userID]
	return connID, ok
}
