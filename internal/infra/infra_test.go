package infra

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

// ── Cache ──

func TestCacheGetSet(t *testing.T) {
	c := NewCache[int](time.Minute)
	if _, ok := c.Get("a"); ok {
		t.Fatal("empty cache should miss")
	}
	c.Set("a", 42)
	v, ok := c.Get("a")
	if !ok || v != 42 {
		t.Errorf("Get(a): got (%v, %v), want (42, true)", v, ok)
	}
	if c.Len() != 1 {
		t.Errorf("Len: got %d, want 1", c.Len())
	}
}

func TestCacheExpiry(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewCache[string](time.Minute)
	c.now = func() time.Time { return now }

	c.Set("k", "v")
	c.SetWithTTL("long", "v", time.Hour)

	now = now.Add(2 * time.Minute)
	if _, ok := c.Get("k"); ok {
		t.Error("entry should have expired")
	}
	if _, ok := c.Get("long"); !ok {
		t.Error("entry with custom TTL should still be present")
	}

	c.Cleanup()
	if c.Len() != 1 {
		t.Errorf("Len after Cleanup: got %d, want 1", c.Len())
	}
}

func TestCacheDisabled(t *testing.T) {
	c := NewCache[int](0)
	if c.Enabled() {
		t.Error("zero TTL cache should report disabled")
	}
	c.Set("a", 1)
	if _, ok := c.Get("a"); ok {
		t.Error("disabled cache should never hit")
	}
	if c.Len() != 0 {
		t.Errorf("disabled cache Len: got %d, want 0", c.Len())
	}
}

func TestCacheConcurrent(t *testing.T) {
	c := NewCache[int](time.Minute)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c.Set("k", i)
			c.Get("k")
		}(i)
	}
	wg.Wait()
	if _, ok := c.Get("k"); !ok {
		t.Error("expected a value after concurrent writes")
	}
}

// ── Rate limiter ──

func TestClientRateLimiterBurst(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewClientRateLimiter(1, 2)
	l.now = func() time.Time { return now }

	if !l.Allow("a") || !l.Allow("a") {
		t.Fatal("burst of 2 should be allowed")
	}
	if l.Allow("a") {
		t.Error("third request within the same instant should be limited")
	}
	if !l.Allow("b") {
		t.Error("other clients have their own bucket")
	}

	now = now.Add(time.Second)
	if !l.Allow("a") {
		t.Error("token should refill after one second")
	}
}

func TestClientRateLimiterDisabled(t *testing.T) {
	l := NewClientRateLimiter(0, 0)
	for i := 0; i < 100; i++ {
		if !l.Allow("a") {
			t.Fatal("disabled limiter should always allow")
		}
	}
}

func TestClientRateLimiterCleanup(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewClientRateLimiter(1, 1)
	l.now = func() time.Time { return now }
	l.Allow("a")

	now = now.Add(idleClientTTL + time.Second)
	l.Allow("b")
	l.Cleanup()

	if _, ok := l.clients["a"]; ok {
		t.Error("idle client should be forgotten")
	}
	if _, ok := l.clients["b"]; !ok {
		t.Error("active client should be kept")
	}
}

func TestClientRateLimiterMiddleware(t *testing.T) {
	l := NewClientRateLimiter(1, 1)
	limited := 0
	h := l.Middleware(func(*http.Request) { limited++ })(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	codes := make([]int, 2)
	for i := range codes {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes[i] = rec.Code
	}

	if codes[0] != http.StatusNoContent {
		t.Errorf("first request: got %d, want %d", codes[0], http.StatusNoContent)
	}
	if codes[1] != http.StatusTooManyRequests {
		t.Errorf("second request: got %d, want %d", codes[1], http.StatusTooManyRequests)
	}
	if limited != 1 {
		t.Errorf("onLimit calls: got %d, want 1", limited)
	}
}

func TestClientKey(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.7:1234"
	if got := clientKey(req); got != "192.168.1.7" {
		t.Errorf("clientKey: got %q", got)
	}
	req.RemoteAddr = "unix"
	if got := clientKey(req); got != "unix" {
		t.Errorf("clientKey without port: got %q", got)
	}
}
