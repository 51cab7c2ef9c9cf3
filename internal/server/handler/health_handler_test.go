package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azhengyongqin/redisurl-hub/internal/healthcheck"
)

type stubChecker struct {
	ready healthcheck.CheckResult
}

func (s stubChecker) LivenessCheck() healthcheck.CheckResult {
	return healthcheck.CheckResult{Status: "ok", Checks: map[string]string{"service": "running"}}
}

func (s stubChecker) ReadinessCheck(context.Context) healthcheck.CheckResult {
	return s.ready
}

func serveHealth(h *HealthHandler, path string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/healthz", h.Liveness)
	r.GET("/readyz", h.Readiness)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestHealthHandler(t *testing.T) {
	t.Run("liveness carries version", func(t *testing.T) {
		w := serveHealth(NewHealthHandler(stubChecker{}, "1.2.3"), "/healthz")
		require.Equal(t, http.StatusOK, w.Code)

		var result healthcheck.CheckResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		assert.Equal(t, "ok", result.Status)
		assert.Equal(t, "1.2.3", result.Version)
	})

	t.Run("readiness ok", func(t *testing.T) {
		checker := stubChecker{ready: healthcheck.CheckResult{Status: "ok", Checks: map[string]string{"redis": "ok"}}}
		w := serveHealth(NewHealthHandler(checker, ""), "/readyz")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("readiness error", func(t *testing.T) {
		checker := stubChecker{ready: healthcheck.CheckResult{Status: "error", Checks: map[string]string{"redis": "error: refused"}}}
		w := serveHealth(NewHealthHandler(checker, ""), "/readyz")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), "refused")
	})

	t.Run("no checker", func(t *testing.T) {
		w := serveHealth(NewHealthHandler(nil, ""), "/readyz")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "ok", w.Body.String())
	})
}
