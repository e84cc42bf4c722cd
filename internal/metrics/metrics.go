package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

var (
	// HTTPRequests counts handled requests by method, path and status.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "joinboard_http_requests_total",
		Help: "Handled HTTP requests.",
	}, []string{"method", "path", "status"})

	// AuthAttempts counts authentication outcomes by kind (login,
	// registration, guest) and outcome (success, failure).
	AuthAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "joinboard_auth_attempts_total",
		Help: "Authentication attempts.",
	}, []string{"kind", "outcome"})

	// GuestsReaped counts guest accounts removed by the cleanup job.
	GuestsReaped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "joinboard_guests_reaped_total",
		Help: "Guest accounts deleted past the retention window.",
	})
)

// Handler adapts the prometheus scrape handler to fasthttp.
func Handler() fasthttp.RequestHandler {
	return fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
}

// ObserveRequest records one handled request.
func ObserveRequest(method, path string, status int) {
	HTTPRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
}
