package middleware

import (
	"strconv"
	"time"

	applogger "StockCast/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"route", "method"},
	)

	httpInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_in_flight_requests",
			Help: "Current number of in-flight HTTP requests",
		},
	)
)

// Metrics records per-route request counts and latencies. The echo route
// template is the label, so cardinality stays bounded by the number of
// registered routes. Slow requests and 5xx responses also land in the log.
func Metrics(l *applogger.Logger, slowThreshold time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			route := c.Path()
			method := c.Request().Method

			httpInFlight.Inc()
			start := time.Now()

			err := next(c)

			elapsed := time.Since(start)
			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				}
			}

			httpRequestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
			httpRequestDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
			httpInFlight.Dec()

			if l != nil {
				switch {
				case status >= 500:
					l.Error("http request failed",
						applogger.String("route", route),
						applogger.String("method", method),
						applogger.Int("status", status),
						applogger.Duration("elapsed", elapsed),
					)
				case slowThreshold > 0 && elapsed >= slowThreshold:
					l.Warn("http request slow",
						applogger.String("route", route),
						applogger.String("method", method),
						applogger.Int("status", status),
						applogger.Duration("elapsed", elapsed),
					)
				}
			}

			return err
		}
	}
}
