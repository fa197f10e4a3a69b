package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestOrderCounters(t *testing.T) {
	m := New()
	m.OrderCreated("CASH")
	m.OrderCreated("CASH")
	m.OrderRejected("insufficient_stock")
	m.OrderTransition("status", "SHIPPED")

	body := scrape(t, m)
	assert.Contains(t, body, `ferreteria_orders_created_total{payment_method="CASH"} 2`)
	assert.Contains(t, body, `ferreteria_orders_rejected_total{reason="insufficient_stock"} 1`)
	assert.Contains(t, body, `ferreteria_orders_transitions_total{field="status",to="SHIPPED"} 1`)
}

func TestHandler_ExponeMetricasHTTP(t *testing.T) {
	m := New()
	m.ObserveHTTP(http.MethodGet, "/products", 200, 15*time.Millisecond)

	body := scrape(t, m)
	assert.Contains(t, body, `ferreteria_http_requests_total{method="GET",route="/products",status="200"} 1`)
	assert.Contains(t, body, "ferreteria_http_request_duration_seconds_bucket")
	assert.Contains(t, body, "go_goroutines")
}
