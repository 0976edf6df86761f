package observability

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics("complaints")

	m.RecordRequest("/complaint", "POST", 201, 15*time.Millisecond)
	m.RecordRequest("/complaint", "POST", 201, 5*time.Millisecond)
	m.RecordError("/complaint", "POST", "VALIDATION_FAILED")
	m.RecordNotification("complaint_created", NotificationSent)
	m.RecordNotification("complaint_created", NotificationDropped)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("/complaint", "POST", "201")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.errors.WithLabelValues("/complaint", "POST", "VALIDATION_FAILED")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.notifications.WithLabelValues("complaint_created", NotificationSent)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.notifications.WithLabelValues("complaint_created", NotificationDropped)))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordRequest("/", "GET", 200, time.Millisecond)
		m.RecordError("/", "GET", "X")
		m.RecordNotification("e", NotificationFailed)
	})
}

func TestRequestLogger_RecordsRouteAndStatus(t *testing.T) {
	m := NewMetrics("complaints")
	app := fiber.New()
	app.Use(RequestLogger(zap.NewNop(), m))
	app.Get("/complaint/:id", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/complaint/abc", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("/complaint/:id", "GET", "204")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "complaints_http_requests_total")
}
