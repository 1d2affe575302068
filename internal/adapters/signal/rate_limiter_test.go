package signal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRoomRateLimiterSlidingWindow(t *testing.T) {
	rl := NewRoomRateLimiter(2, time.Second)
	now := time.Unix(1000, 0)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("a"))
	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))
	assert.True(t, rl.Allow("b"), "limits are per connection")

	now = now.Add(500 * time.Millisecond)
	assert.False(t, rl.Allow("a"))

	now = now.Add(600 * time.Millisecond)
	assert.True(t, rl.Allow("a"))
}

func TestRoomRateLimiterForget(t *testing.T) {
	rl := NewRoomRateLimiter(1, time.Minute)
	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))
	rl.Forget("a")
	assert.True(t, rl.Allow("a"))
}

func TestRoomRateLimiterDisabled(t *testing.T) {
	rl := NewRoomRateLimiter(0, time.Minute)
	for range 100 {
		assert.True(t, rl.Allow("a"))
	}
}

func TestAllowOnlyLimitsFloodableEvents(t *testing.T) {
	ctl := &SignalWSController{Limiter: NewRoomRateLimiter(1, time.Minute)}
	assert.True(t, ctl.allow("a", "send-chat-message"))
	assert.False(t, ctl.allow("a", "send-chat-message"))
	assert.True(t, ctl.allow("a", "webrtc-candidate"))
	assert.True(t, ctl.allow("a", "ping"))

	ctl.Limiter = nil
	assert.True(t, ctl.allow("a", "send-chat-message"))
}
