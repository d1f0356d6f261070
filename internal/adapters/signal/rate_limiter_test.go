package signal

import (
	"testing"
	"time"

	"github.com/dkeye/Huddle/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestRoomRateLimiter_Window(t *testing.T) {
	rl := NewRoomRateLimiter(2, time.Second)
	now := time.Unix(1700000000, 0)
	rl.now = func() time.Time { return now }

	id := domain.ClientID("a")
	assert.True(t, rl.Allow(id))
	assert.True(t, rl.Allow(id))
	assert.False(t, rl.Allow(id))

	// other clients have their own window
	assert.True(t, rl.Allow("b"))

	now = now.Add(1100 * time.Millisecond)
	assert.True(t, rl.Allow(id))
}

func TestRoomRateLimiter_Forget(t *testing.T) {
	rl := NewRoomRateLimiter(1, time.Hour)
	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))

	rl.Forget("a")
	assert.True(t, rl.Allow("a"))
}

func TestRoomRateLimiter_Disabled(t *testing.T) {
	rl := NewRoomRateLimiter(0, time.Second)
	assert.Nil(t, rl)
	for range 100 {
		assert.True(t, rl.Allow("a"))
	}
	rl.Forget("a")
}
