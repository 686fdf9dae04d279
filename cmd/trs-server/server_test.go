package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	trs "github.com/njchilds90/gotrs"
)

func setupRouter(limiter *rate.Limiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := trs.NewService(trs.NewEngine(), nil)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return newRouter(svc, log, prometheus.NewRegistry(), limiter)
}

func do(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req, err := http.NewRequest(method, path, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestHealth(t *testing.T) {
	w := do(t, setupRouter(nil), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w)["status"])
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))
}

func TestAnswer(t *testing.T) {
	w := do(t, setupRouter(nil), http.MethodPost, "/answer", `{"expr": "2/15 + 1/4"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	out := decode(t, w)
	assert.Equal(t, "23 / 60", out["result"])
	assert.Len(t, out["steps"], 2)
}

func TestStep_Done(t *testing.T) {
	w := do(t, setupRouter(nil), http.MethodPost, "/step", `{"expr": "a"}`)
	require.Equal(t, http.StatusOK, w.Code)
	out := decode(t, w)
	assert.Equal(t, true, out["done"])
	assert.Equal(t, "a", out["result"])
}

func TestBadRequests(t *testing.T) {
	r := setupRouter(nil)
	tests := []struct {
		path, body string
		status     int
	}{
		{"/hint", `{}`, http.StatusBadRequest},
		{"/hint", `not json`, http.StatusBadRequest},
		{"/hint", `{"expr": "a +"}`, http.StatusUnprocessableEntity},
		{"/validate", `{"from": "a"}`, http.StatusBadRequest},
		{"/eval", `{"expr": "a"}`, http.StatusUnprocessableEntity},
		{"/tool", `{"tool": "frobnicate"}`, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		w := do(t, r, http.MethodPost, tt.path, tt.body)
		assert.Equal(t, tt.status, w.Code, "%s %s", tt.path, tt.body)
		assert.NotEmpty(t, decode(t, w)["error"])
	}
}

func TestValidate(t *testing.T) {
	r := setupRouter(nil)
	w := do(t, r, http.MethodPost, "/validate", `{"from": "3a + a", "to": "4a"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, true, decode(t, w)["valid"])

	w = do(t, r, http.MethodPost, "/validate", `{"lines": "3a + a\n4a\n5a"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, float64(1), decode(t, w)["validated"])
}

func TestValidate_CallerCancelled(t *testing.T) {
	r := setupRouter(nil)
	body := `{"from": "3a + a + b + 2b", "to": "4a + 3b"}`

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "/validate", strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Contains(t, []int{http.StatusOK, http.StatusRequestTimeout}, w.Code)

	// the shared search completes although its caller is gone
	require.Eventually(t, func() bool {
		m := httptest.NewRecorder()
		r.ServeHTTP(m, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		return strings.Contains(m.Body.String(), `trs_validations_total{outcome="valid"} 1`)
	}, 5*time.Second, 10*time.Millisecond)

	w = do(t, r, http.MethodPost, "/validate", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	out := decode(t, w)
	assert.Equal(t, true, out["valid"])
	witness, ok := out["witness"].(string)
	require.True(t, ok, w.Body.String())
	assert.True(t, trs.Equiv(trs.MustParse(witness), trs.MustParse("4a + 3b"), false), witness)
}

func TestEval(t *testing.T) {
	w := do(t, setupRouter(nil), http.MethodPost, "/eval", `{"expr": "x^2 + 1", "env": {"x": 3}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, float64(10), decode(t, w)["value"])
}

func TestRateLimit(t *testing.T) {
	r := setupRouter(rate.NewLimiter(rate.Every(1e12), 1))
	assert.Equal(t, http.StatusOK, do(t, r, http.MethodPost, "/hint", `{"expr": "a"}`).Code)
	assert.Equal(t, http.StatusTooManyRequests, do(t, r, http.MethodPost, "/hint", `{"expr": "a"}`).Code)
	assert.Equal(t, http.StatusOK, do(t, r, http.MethodGet, "/health", "").Code, "health is not limited")
}

func TestMetrics(t *testing.T) {
	r := setupRouter(nil)
	do(t, r, http.MethodPost, "/answer", `{"expr": "3a + a"}`)
	w := do(t, r, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `trs_http_requests_total{route="/answer",status="200"} 1`)
	assert.Contains(t, body, "trs_rewrite_steps_total")
}
