package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const Namespace = "homework_bot"

const (
	CycleSuccess   = "success"
	CycleNoUpdates = "no_updates"
	CycleFailure   = "failure"

	NotificationSent       = "sent"
	NotificationSuppressed = "suppressed"
	NotificationFailed     = "failed"
)

var circuitStates = []string{"closed", "half-open", "open"}

var (
	CyclesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "cycles_total",
			Help:      "Total number of poll cycles by result",
		},
		[]string{"result"},
	)

	CycleErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "cycle_errors_total",
			Help:      "Total number of failed poll cycles by error kind",
		},
		[]string{"kind"},
	)

	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "notifications_total",
			Help:      "Notifications by kind and outcome",
		},
		[]string{"kind", "result"},
	)

	FetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Homework API request duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"status"},
	)

	CursorTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "cursor_timestamp_seconds",
			Help:      "Current from_date cursor of the poll loop",
		},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "circuit_breaker_state",
			Help:      "1 for the current state of the circuit breaker, 0 otherwise",
		},
		[]string{"service", "state"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "http_requests_total",
			Help:      "Requests served by the metrics and health endpoints",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of requests served by the metrics and health endpoints",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	UserCommandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "user_commands_total",
			Help:      "Total number of bot commands processed",
		},
		[]string{"command"},
	)
)

func RecordCycle(result string) {
	CyclesTotal.WithLabelValues(result).Inc()
}

func RecordCycleError(kind string) {
	CyclesTotal.WithLabelValues(CycleFailure).Inc()
	CycleErrorsTotal.WithLabelValues(kind).Inc()
}

func RecordNotification(kind, result string) {
	NotificationsTotal.WithLabelValues(kind, result).Inc()
}

func RecordFetch(status string, duration time.Duration) {
	FetchDuration.WithLabelValues(status).Observe(duration.Seconds())
}

func SetCursor(cursor int64) {
	CursorTimestamp.Set(float64(cursor))
}

func SetCircuitBreakerState(service, state string) {
	for _, s := range circuitStates {
		value := 0.0
		if s == state {
			value = 1
		}

		CircuitBreakerState.WithLabelValues(service, s).Set(value)
	}
}

func RecordUserCommand(command string) {
	UserCommandsTotal.WithLabelValues(command).Inc()
}

func RecordHTTPRequest(method, path string, statusCode int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}
