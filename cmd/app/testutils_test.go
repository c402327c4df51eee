package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sushihentaime/bloglist/internal/blogservice"
	"github.com/sushihentaime/bloglist/internal/common"
	"github.com/sushihentaime/bloglist/internal/userservice"
)

type testServer struct {
	*httptest.Server
}

func newTestServer(t *testing.T, h http.Handler) *testServer {
	ts := httptest.NewServer(h)

	t.Cleanup(ts.Close)

	return &testServer{ts}
}

func newTestConfig() *Config {
	return &Config{
		Port:        "0",
		Environment: "testing",
		Version:     "1.0.0",
		Secret:      "secret",
		Storage:     "memory",
	}
}

// newTestApplication wires the services over in-memory stores and a no-op producer.
func newTestApplication(t *testing.T, cfg *Config) *application {
	t.Helper()

	tokens, err := userservice.NewTokenIssuer(cfg.Secret)
	require.NoError(t, err)

	return newApplication(cfg, zap.NewNop(), userservice.NewMemoryUserStore(), blogservice.NewMemoryBlogStore(), tokens, common.NopProducer{})
}

// do sends a request and decodes the JSON body into dst when dst is not nil.
func (ts *testServer) do(t *testing.T, method, path, token string, payload any, dst any) (int, http.Header) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		jsonPayload, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(jsonPayload)
	}

	req, err := http.NewRequest(method, ts.URL+path, body)
	require.NoError(t, err)

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "bearer "+token)
	}

	res, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	responseBody, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	if dst != nil && len(responseBody) > 0 {
		require.NoError(t, json.Unmarshal(responseBody, dst))
	}

	return res.StatusCode, res.Header
}
