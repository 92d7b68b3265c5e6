package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllowExhaustsBurst(t *testing.T) {
	rl := NewRateLimiterWithPolicies(map[string]Policy{
		"test": {Burst: 2, Every: time.Hour},
	})

	ok, _ := rl.Allow("u1", "test")
	assert.True(t, ok)
	ok, _ = rl.Allow("u1", "test")
	assert.True(t, ok)

	ok, wait := rl.Allow("u1", "test")
	assert.False(t, ok)
	assert.Greater(t, wait, time.Duration(0))

	// buckets are per user
	ok, _ = rl.Allow("u2", "test")
	assert.True(t, ok)
}

func TestCleanupDropsIdleBuckets(t *testing.T) {
	rl := NewRateLimiter()
	current := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return current }

	rl.Allow("u1", ActionSendMessage)
	current = current.Add(2 * time.Hour)
	rl.Cleanup(time.Hour)

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.Empty(t, rl.buckets)
}
