package ratelimiter

import (
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newLimiter(limit int, timeFrame time.Duration) (*FixedWindowRateLimiter, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	rl := NewFixedWindowLimiter(limit, timeFrame)
	rl.now = clock.Now
	return rl, clock
}

func TestNewFixedWindowLimiter(t *testing.T) {
	t.Parallel()

	rl := NewFixedWindowLimiter(5, 90*time.Second)
	if rl.limit != 5 {
		t.Errorf("limit = %d, want 5", rl.limit)
	}
	if rl.window != 90*time.Second {
		t.Errorf("window = %v, want 1m30s", rl.window)
	}
	if rl.clients == nil || rl.size() != 0 {
		t.Errorf("expected an empty client table, got %v", rl.clients)
	}
	if ok, _ := rl.Allow("10.0.0.1"); !ok {
		t.Error("first request on a fresh limiter should be allowed")
	}
}

func TestAllow(t *testing.T) {
	t.Parallel()

	rl, clock := newLimiter(3, 10*time.Second)

	for i := 0; i < 3; i++ {
		if ok, _ := rl.Allow("10.0.0.1"); !ok {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}

	clock.Advance(4 * time.Second)
	ok, retry := rl.Allow("10.0.0.1")
	if ok {
		t.Fatal("fourth request should be limited")
	}
	if retry != 6*time.Second {
		t.Errorf("retry after = %v, want 6s", retry)
	}

	if ok, _ := rl.Allow("10.0.0.2"); !ok {
		t.Error("other keys must not share the window")
	}

	clock.Advance(6 * time.Second)
	if ok, _ := rl.Allow("10.0.0.1"); !ok {
		t.Error("request after window reset should be allowed")
	}
}

func TestSweep(t *testing.T) {
	t.Parallel()

	rl, clock := newLimiter(1, time.Minute)
	rl.Allow("a")
	clock.Advance(30 * time.Second)
	rl.Allow("b")
	clock.Advance(30 * time.Second)

	rl.sweep()
	if n := rl.size(); n != 1 {
		t.Errorf("expected only the fresh window to survive, got %d", n)
	}
}
