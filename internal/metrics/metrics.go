// Package metrics exposes Prometheus collectors for the HTTP layer and the
// payout reservation path.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

const namespace = "committee"

// Reservation outcomes
const (
	OutcomeReserved = "reserved"
	OutcomeRetried  = "retried"
	OutcomeFailed   = "failed"
)

// Metrics holds the application collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	gatherer prometheus.Gatherer

	httpRequests      *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	slotReservations  *prometheus.CounterVec
	payoutsCreated    prometheus.Counter
	feesCollected     prometheus.Counter
	notificationsSent *prometheus.CounterVec
	wsConnections     prometheus.Gauge
}

// New registers all collectors with registry
func New(registry *prometheus.Registry) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		gatherer: registry,
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		slotReservations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "slot_reservations_total",
			Help:      "Payout slot reservation attempts by outcome",
		}, []string{"outcome"}),
		payoutsCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payouts_created_total",
			Help:      "Total payouts scheduled",
		}),
		feesCollected: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payout_fees_total",
			Help:      "Sum of fees deducted from scheduled payouts",
		}),
		notificationsSent: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Notifications created by type",
		}, []string{"type"}),
		wsConnections: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "websocket_connections",
			Help:      "Open websocket connections",
		}),
	}
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// Middleware records request counts and latency per route template
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				status = http.StatusInternalServerError
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				}
			}
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			method := c.Request().Method

			m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
			m.httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

// ObserveReservation counts one slot reservation attempt
func (m *Metrics) ObserveReservation(outcome string) {
	if m == nil {
		return
	}
	m.slotReservations.WithLabelValues(outcome).Inc()
}

// ObservePayout counts a scheduled payout and its fee
func (m *Metrics) ObservePayout(fee decimal.Decimal) {
	if m == nil {
		return
	}
	m.payoutsCreated.Inc()
	m.feesCollected.Add(fee.InexactFloat64())
}

// ObserveNotification counts a created notification
func (m *Metrics) ObserveNotification(notificationType string) {
	if m == nil {
		return
	}
	m.notificationsSent.WithLabelValues(notificationType).Inc()
}

// WebSocketConnected tracks an opened connection
func (m *Metrics) WebSocketConnected() {
	if m == nil {
		return
	}
	m.wsConnections.Inc()
}

// WebSocketDisconnected tracks a closed connection
func (m *Metrics) WebSocketDisconnected() {
	if m == nil {
		return
	}
	m.wsConnections.Dec()
}
