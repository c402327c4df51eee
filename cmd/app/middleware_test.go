package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRecoverPanic(t *testing.T) {
	app := newTestApplication(t, newTestConfig())

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("something went wrong")
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	res := httptest.NewRecorder()

	app.recoverPanic(handler).ServeHTTP(res, req)

	assert.Equal(t, http.StatusInternalServerError, res.Code)
	assert.Equal(t, "close", res.Header().Get("Connection"))
}

func TestRateLimit(t *testing.T) {
	cfg := newTestConfig()
	cfg.LimiterEnabled = true
	cfg.LimiterRPS = 1
	cfg.LimiterBurst = 2
	app := newTestApplication(t, cfg)

	handler := app.rateLimit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(remoteAddr string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = remoteAddr
		res := httptest.NewRecorder()
		handler.ServeHTTP(res, req)
		return res.Code
	}

	assert.Equal(t, http.StatusOK, send("10.0.0.1:1234"))
	assert.Equal(t, http.StatusOK, send("10.0.0.1:1234"))
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.1:1234"))

	// buckets are per client
	assert.Equal(t, http.StatusOK, send("10.0.0.2:1234"))
}

func TestRateLimit_Disabled(t *testing.T) {
	app := newTestApplication(t, newTestConfig())

	handler := app.rateLimit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 10; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		res := httptest.NewRecorder()
		handler.ServeHTTP(res, req)
		assert.Equal(t, http.StatusOK, res.Code)
	}
}

func TestIPRateLimiter_Prune(t *testing.T) {
	l := newIPRateLimiter(1, 1)
	l.allow("10.0.0.1")
	l.clients["10.0.0.1"].lastSeen = time.Now().Add(-time.Hour)
	l.allow("10.0.0.2")

	l.prune(time.Minute)

	assert.NotContains(t, l.clients, "10.0.0.1")
	assert.Contains(t, l.clients, "10.0.0.2")
}

func TestIPRateLimiter_Run(t *testing.T) {
	l := newIPRateLimiter(1, 1)
	l.allow("10.0.0.1")
	l.mu.Lock()
	l.clients["10.0.0.1"].lastSeen = time.Now().Add(-time.Hour)
	l.mu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		l.run(ctx, 10*time.Millisecond, time.Minute)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		l.mu.Lock()
		defer l.mu.Unlock()
		return len(l.clients) == 0
	}, time.Second, 10*time.Millisecond)

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("limiter kept running after cancel")
	}
}

func TestExtractBearerToken(t *testing.T) {
	testCases := []struct {
		name     string
		header   string
		expected string
	}{
		{name: "lower case scheme", header: "bearer abc.def.ghi", expected: "abc.def.ghi"},
		{name: "capitalized scheme", header: "Bearer abc.def.ghi", expected: "abc.def.ghi"},
		{name: "no header", header: "", expected: ""},
		{name: "other scheme", header: "Basic dXNlcjpwYXNz", expected: ""},
		{name: "scheme only", header: "bearer", expected: ""},
		{name: "extra parts", header: "bearer a b", expected: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			assert.Equal(t, tc.expected, extractBearerToken(req))
		})
	}
}
