package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/seatbook-api/internal/middleware"
	"github.com/noah-isme/seatbook-api/internal/models"
	"github.com/noah-isme/seatbook-api/internal/service"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type envelope struct {
	Data  json.RawMessage        `json:"data"`
	Error *errorBody             `json:"error"`
	Meta  map[string]interface{} `json:"meta"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

// newContext prepares a test context, attaching claims when non-nil.
func newContext(method, target, body string, claims *models.JWTClaims) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	if claims != nil {
		c.Set(middleware.ContextUserKey, claims)
	}
	return c, w
}

func adminClaims() *models.JWTClaims {
	return &models.JWTClaims{UserID: "admin-1", Role: models.RoleAdmin}
}

func employeeClaims() *models.JWTClaims {
	return &models.JWTClaims{UserID: "emp-1", Role: models.RoleEmployee}
}

func TestMetricsHandlerHealth(t *testing.T) {
	h := NewMetricsHandler(nil, nil)
	c, w := newContext(http.MethodGet, "/health", "", nil)
	h.Health(c)
	assert.Equal(t, http.StatusOK, w.Code)

	h = NewMetricsHandler(nil, failingPinger{})
	c, w = newContext(http.MethodGet, "/health", "", nil)
	h.Health(c)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestMetricsHandlerPrometheusWithoutMetrics(t *testing.T) {
	h := NewMetricsHandler(nil, nil)
	c, w := newContext(http.MethodGet, "/metrics", "", nil)
	h.Prometheus(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.True(t, c.IsAborted())
}

func TestMetricsHandlerPrometheusServesRegistry(t *testing.T) {
	h := NewMetricsHandler(service.NewMetricsService(), nil)
	c, w := newContext(http.MethodGet, "/metrics", "", nil)
	h.Prometheus(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "goroutines_total")
}

type failingPinger struct{}

func (failingPinger) PingContext(ctx context.Context) error { return context.DeadlineExceeded }
