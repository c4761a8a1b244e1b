package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// methodOther labels every request method outside knownMethods.
const methodOther = "other"

var knownMethods = map[string]bool{
	http.MethodGet:     true,
	http.MethodPost:    true,
	http.MethodPut:     true,
	http.MethodDelete:  true,
	http.MethodHead:    true,
	http.MethodPatch:   true,
	http.MethodOptions: true,
}

// methodLabel keeps the method label set fixed whatever clients send.
func methodLabel(method string) string {
	if knownMethods[method] {
		return method
	}
	return methodOther
}

// Metrics records request counts and latencies on a Prometheus registry.
type Metrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewMetrics registers the HTTP collectors under namespace on registry.
func NewMetrics(registry prometheus.Registerer, namespace string) (*Metrics, error) {
	m := &Metrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "The total number of HTTP requests served, by method and status code",
			},
			[]string{"method", "code"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "The time spent serving HTTP requests in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method"},
		),
	}

	if err := registry.Register(m.requestsTotal); err != nil {
		return nil, errors.Wrap(err, "could not register requests counter")
	}
	if err := registry.Register(m.requestDuration); err != nil {
		return nil, errors.Wrap(err, "could not register request duration histogram")
	}
	return m, nil
}

// Middleware observes every request passing through it.
func (m *Metrics) Middleware() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := newStatusRecorder(w)
			next.ServeHTTP(rec, r)

			method := methodLabel(r.Method)
			m.requestsTotal.WithLabelValues(method, strconv.Itoa(rec.status)).Inc()
			m.requestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
		})
	}
}
