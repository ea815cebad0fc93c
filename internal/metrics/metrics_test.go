package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)

	for _, family := range families {
		if family.GetName() != name {
			continue
		}
	metrics:
		for _, metric := range family.GetMetric() {
			for _, pair := range metric.GetLabel() {
				if want, ok := labels[pair.GetName()]; ok && want != pair.GetValue() {
					continue metrics
				}
			}
			if metric.GetCounter() != nil {
				return metric.GetCounter().GetValue()
			}
			return metric.GetGauge().GetValue()
		}
	}
	return 0
}

func TestMiddleware_CountsRequestsByRoute(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/api/v1/committees/:id", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	for _, id := range []string{"a", "b"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/committees/"+id, nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	assert.Equal(t, 2.0, counterValue(t, reg, "committee_http_requests_total", map[string]string{
		"route":  "/api/v1/committees/:id",
		"status": "200",
	}))
}

func TestObserveReservationAndPayout(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveReservation(OutcomeRetried)
	m.ObserveReservation(OutcomeReserved)
	m.ObservePayout(decimal.NewFromInt(7500))
	m.ObserveNotification("payout_scheduled")
	m.WebSocketConnected()
	m.WebSocketConnected()
	m.WebSocketDisconnected()

	assert.Equal(t, 1.0, counterValue(t, reg, "committee_slot_reservations_total", map[string]string{"outcome": OutcomeRetried}))
	assert.Equal(t, 1.0, counterValue(t, reg, "committee_payouts_created_total", nil))
	assert.Equal(t, 7500.0, counterValue(t, reg, "committee_payout_fees_total", nil))
	assert.Equal(t, 1.0, counterValue(t, reg, "committee_notifications_total", map[string]string{"type": "payout_scheduled"}))
	assert.Equal(t, 1.0, counterValue(t, reg, "committee_websocket_connections", nil))
}

func TestNilMetricsIsNoOp(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveReservation(OutcomeFailed)
		m.ObservePayout(decimal.NewFromInt(1))
		m.ObserveNotification("payment_due")
		m.WebSocketConnected()
		m.WebSocketDisconnected()
	})
}

func TestHandler_ServesTextFormat(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.ObservePayout(decimal.NewFromInt(10))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "committee_payouts_created_total 1"))
}
