package ratelimit

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// newTestLimiter returns a limiter without a cleanup goroutine whose clock
// is controlled through the returned pointer.
func newTestLimiter(t *testing.T, cfg *Config) (*Limiter, *time.Time) {
	t.Helper()
	cfg.CleanupInterval = 0
	l := NewLimiter(cfg)
	t.Cleanup(l.Stop)
	now := t0
	l.now = func() time.Time { return now }
	return l, &now
}

func TestBucket_TakeAndRefill(t *testing.T) {
	b := newBucket(10, 1.0, t0)

	for i := 0; i < 10; i++ {
		assert.True(t, b.take(t0), "request %d", i+1)
	}
	assert.False(t, b.take(t0))
	assert.Equal(t, time.Second, b.retryAfter())

	later := t0.Add(1100 * time.Millisecond)
	assert.True(t, b.take(later), "one token refilled")
	assert.False(t, b.take(later))
}

func TestBucket_Status(t *testing.T) {
	b := newBucket(10, 1.0, t0)
	for i := 0; i < 5; i++ {
		b.take(t0)
	}

	remaining, reset := b.status(t0)
	assert.Equal(t, 5, remaining)
	assert.Equal(t, t0.Add(5*time.Second), reset)

	remaining, reset = b.status(t0.Add(time.Minute))
	assert.Equal(t, 10, remaining, "never exceeds capacity")
	assert.Equal(t, t0.Add(time.Minute), reset)
}

func TestLimiter_Allow(t *testing.T) {
	l, now := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 10, DefaultWindow: time.Minute})

	for i := 0; i < 10; i++ {
		allowed, info := l.Allow("127.0.0.1", "/history", "GET")
		require.True(t, allowed, "request %d", i+1)
		assert.Equal(t, 10, info.Limit)
		assert.Equal(t, 9-i, info.Remaining)
	}

	allowed, info := l.Allow("127.0.0.1", "/history", "GET")
	assert.False(t, allowed)
	assert.Zero(t, info.Remaining)
	assert.Equal(t, 6*time.Second, info.RetryAfter)

	*now = now.Add(6 * time.Second)
	allowed, _ = l.Allow("127.0.0.1", "/history", "GET")
	assert.True(t, allowed, "refilled after RetryAfter")

	allowed, _ = l.Allow("10.0.0.2", "/history", "GET")
	assert.True(t, allowed, "other clients have their own bucket")
}

func TestLimiter_WhitelistAndBlacklist(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Minute,
		Whitelist:     map[string]bool{"127.0.0.1": true},
		Blacklist:     map[string]bool{"192.168.1.1": true},
	})

	for i := 0; i < 50; i++ {
		allowed, info := l.Allow("127.0.0.1", "/extract", "POST")
		require.True(t, allowed)
		assert.Zero(t, info.Limit)
	}

	allowed, _ := l.Allow("192.168.1.1", "/health", "GET")
	assert.False(t, allowed, "blacklist wins even on unlimited routes")
}

func TestLimiter_Disabled(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{Enabled: false})
	for i := 0; i < 100; i++ {
		allowed, info := l.Allow("127.0.0.1", "/extract", "POST")
		require.True(t, allowed)
		assert.Zero(t, info.Limit)
	}
}

func TestLimiter_EndpointSpecific(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{
		Enabled:         true,
		DefaultLimit:    1000,
		DefaultWindow:   time.Minute,
		EndpointConfigs: DefaultEndpointConfigs(),
	})

	for i := 0; i < 5; i++ {
		allowed, info := l.Allow("127.0.0.1", "/analyze", "POST")
		require.True(t, allowed, "burst request %d", i+1)
		assert.Equal(t, 30, info.Limit)
	}
	allowed, _ := l.Allow("127.0.0.1", "/analyze", "POST")
	assert.False(t, allowed, "burst exhausted")

	allowed, info := l.Allow("127.0.0.1", "/tailor", "POST")
	assert.True(t, allowed, "separate rule, separate bucket")
	assert.Equal(t, 30, info.Limit)

	allowed, info = l.Allow("127.0.0.1", "/stats", "GET")
	assert.True(t, allowed)
	assert.Equal(t, 1000, info.Limit)
}

func TestLimiter_UnlimitedRoutes(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Hour})
	for i := 0; i < 20; i++ {
		allowed, _ := l.Allow("127.0.0.1", "/health", "GET")
		require.True(t, allowed)
		allowed, _ = l.Allow("127.0.0.1", "/metrics", "GET")
		require.True(t, allowed)
		allowed, _ = l.Allow("127.0.0.1", "/extract", "OPTIONS")
		require.True(t, allowed)
	}
}

func TestLimiter_Concurrent(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 100, DefaultWindow: time.Minute})

	var wg sync.WaitGroup
	var allowedCount atomic.Int32
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if allowed, _ := l.Allow("127.0.0.1", "/history", "GET"); allowed {
				allowedCount.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(100), allowedCount.Load())
}

func TestLimiter_CleanupRemovesIdleBuckets(t *testing.T) {
	l, now := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 10, DefaultWindow: time.Minute})

	for i := 0; i < 10; i++ {
		l.Allow(fmt.Sprintf("127.0.0.%d", i+1), "/history", "GET")
	}

	*now = now.Add(2 * time.Hour)
	for i := 0; i < 5; i++ {
		l.Allow(fmt.Sprintf("127.0.0.%d", i+1), "/history", "GET")
	}

	assert.Equal(t, 5, l.cleanupBuckets())
	assert.Len(t, l.buckets, 5)
}

func TestLimiter_StopTwice(t *testing.T) {
	l := NewLimiter(&Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Minute, CleanupInterval: time.Millisecond})
	l.Stop()
	assert.NotPanics(t, l.Stop)
}

func TestNewLimiter_NilConfig(t *testing.T) {
	l := NewLimiter(nil)
	defer l.Stop()

	allowed, info := l.Allow("127.0.0.1", "/history", "GET")
	assert.True(t, allowed)
	assert.Equal(t, 1000, info.Limit)
}

func TestMatchEndpoint(t *testing.T) {
	configs := []EndpointConfig{
		{Path: "/extract", Method: "POST", Limit: 5},
		{Path: "/jobs/", Method: "DELETE", Limit: 7},
	}

	tests := []struct {
		name      string
		path      string
		method    string
		wantLimit int
		wantNil   bool
	}{
		{name: "exact", path: "/extract", method: "POST", wantLimit: 5},
		{name: "method mismatch", path: "/extract", method: "GET", wantNil: true},
		{name: "prefix", path: "/jobs/123", method: "DELETE", wantLimit: 7},
		{name: "health", path: "/health", method: "GET", wantLimit: 0},
		{name: "metrics", path: "/metrics", method: "GET", wantLimit: 0},
		{name: "preflight", path: "/extract", method: "OPTIONS", wantLimit: 0},
		{name: "unknown", path: "/nope", method: "GET", wantNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchEndpoint(tt.path, tt.method, configs)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantLimit, got.Limit)
		})
	}
}

func TestEndpointConfig_Name(t *testing.T) {
	assert.Equal(t, "default", (&EndpointConfig{}).Name())
	assert.Equal(t, "POST /extract", (&EndpointConfig{Path: "/extract", Method: "POST"}).Name())
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "")
	t.Setenv("RATE_LIMIT_DEFAULT_LIMIT", "42")
	t.Setenv("RATE_LIMIT_DEFAULT_WINDOW", "30s")
	t.Setenv("RATE_LIMIT_TRUST_PROXY", "true")
	t.Setenv("RATE_LIMIT_WHITELIST", " 10.0.0.1 , ,10.0.0.2")

	cfg := LoadConfig()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 42, cfg.DefaultLimit)
	assert.Equal(t, 30*time.Second, cfg.DefaultWindow)
	assert.True(t, cfg.TrustProxy)
	assert.Equal(t, map[string]bool{"10.0.0.1": true, "10.0.0.2": true}, cfg.Whitelist)
	assert.NotEmpty(t, cfg.EndpointConfigs)

	t.Setenv("RATE_LIMIT_ENABLED", "false")
	assert.False(t, LoadConfig().Enabled)
}
