package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInMemoryBlacklist_AddAndCheck(t *testing.T) {
	store := NewInMemoryBlacklistStore()

	blacklisted, err := store.IsBlacklisted("unknown-token")
	assert.NoError(t, err)
	assert.False(t, blacklisted)

	err = store.AddToBlacklist("revoked-token", time.Now().Add(time.Hour))
	assert.NoError(t, err)

	blacklisted, err = store.IsBlacklisted("revoked-token")
	assert.NoError(t, err)
	assert.True(t, blacklisted)
}

func TestInMemoryBlacklist_CleanUpExpired(t *testing.T) {
	store := NewInMemoryBlacklistStore()

	assert.NoError(t, store.AddToBlacklist("expired-token", time.Now().Add(-time.Minute)))
	assert.NoError(t, store.AddToBlacklist("live-token", time.Now().Add(time.Hour)))

	store.CleanUpExpired()

	expired, err := store.IsBlacklisted("expired-token")
	assert.NoError(t, err)
	assert.False(t, expired)

	live, err := store.IsBlacklisted("live-token")
	assert.NoError(t, err)
	assert.True(t, live)
}
