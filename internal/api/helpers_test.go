package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/isayev/coinstack-sub001/internal/api"
	"github.com/isayev/coinstack-sub001/internal/config"
	"github.com/isayev/coinstack-sub001/internal/core"
	"github.com/stretchr/testify/require"
)

// setupTestServer builds an app whose backend is the given handler and
// returns its router.
func setupTestServer(t *testing.T, backend http.Handler) (http.Handler, *core.App) {
	t.Helper()
	if backend == nil {
		backend = http.NotFoundHandler()
	}
	upstream := httptest.NewServer(backend)
	t.Cleanup(upstream.Close)
	return setupTestServerWithURL(t, upstream.URL)
}

func setupTestServerWithURL(t *testing.T, baseURL string) (http.Handler, *core.App) {
	t.Helper()
	cfg := &config.Config{}
	cfg.State.Path = filepath.Join(t.TempDir(), "state.db")
	cfg.API.BaseURL = baseURL
	cfg.API.TimeoutSeconds = 5

	app, err := core.New(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(app.Close)

	return api.NewServer(app).Router(), app
}

// doJSON sends body as JSON and returns the recorded response.
func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}
