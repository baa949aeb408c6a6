package socket

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemoryPresenceSetAndList(t *testing.T) {
	presence := NewMemoryPresence()

	presence.Set("bob", "conn-2")
	presence.Set("alice", "conn-1")

	assert.Equal(t, []string{"alice", "bob"}, presence.OnlineUserIDs())

	connID, ok := presence.ConnID("alice")
	assert.True(t, ok)
	assert.Equal(t, "conn-1", connID)
}

func TestMemoryPresenceRemoveByConn(t *testing.T) {
	presence := NewMemoryPresence()
	presence.Set("alice", "conn-1")

	userID, removed := presence.RemoveConn("conn-1")
	assert.True(t, removed)
	assert.Equal(t, "alice", userID)
	assert.Empty(t, presence.OnlineUserIDs())

	_, removed = presence.RemoveConn("conn-1")
	assert.False(t, removed)
}

func TestMemoryPresenceStaleDisconnectKeepsReconnectedUser(t *testing.T) {
	presence := NewMemoryPresence()
	presence.Set("alice", "conn-old")
	presence.Set("alice", "conn-new") // reconnect before the old socket closed

	_, removed := presence.RemoveConn("conn-old")
	assert.False(t, removed, "stale disconnect must not knock the user offline")
	assert.Equal(t, []string{"alice"}, presence.OnlineUserIDs())
}
