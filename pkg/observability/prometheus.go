package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the Prometheus metrics exposed on /metrics
type Collector struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Business metrics
	ListsSaved   prometheus.Counter
	ListsDeleted prometheus.Counter
	TasksSaved   prometheus.Counter
	TasksDeleted prometheus.Counter

	// Repository metrics
	DBOperations *prometheus.CounterVec
	DBDuration   *prometheus.HistogramVec
}

// NewCollector creates a collector backed by its own registry, so several
// collectors can coexist in one test binary.
func NewCollector(namespace string) *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		ListsSaved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lists_saved_total",
			Help:      "Total number of list upserts",
		}),
		ListsDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lists_deleted_total",
			Help:      "Total number of list deletes",
		}),
		TasksSaved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_saved_total",
			Help:      "Total number of task upserts",
		}),
		TasksDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_deleted_total",
			Help:      "Total number of task deletes",
		}),
		DBOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "db_operations_total",
			Help:      "Total number of database operations",
		}, []string{"operation", "table", "status"}),
		DBDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "db_operation_duration_seconds",
			Help:      "Database operation duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation", "table"}),
	}

	c.registry.MustRegister(
		c.HTTPRequests,
		c.HTTPDuration,
		c.ListsSaved,
		c.ListsDeleted,
		c.TasksSaved,
		c.TasksDeleted,
		c.DBOperations,
		c.DBDuration,
	)
	return c
}

// Registry returns the underlying registry
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus text format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// ObserveDB records one repository call
func (c *Collector) ObserveDB(operation, table string, start time.Time, err error) {
	if c == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	c.DBOperations.WithLabelValues(operation, table, status).Inc()
	c.DBDuration.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
}

// RecordEvent counts a completed mutation by its change-event type
func (c *Collector) RecordEvent(eventType string) {
	if c == nil {
		return
	}
	switch eventType {
	case "list.saved":
		c.ListsSaved.Inc()
	case "list.deleted":
		c.ListsDeleted.Inc()
	case "task.saved":
		c.TasksSaved.Inc()
	case "task.deleted":
		c.TasksDeleted.Inc()
	}
}

// HTTPMiddleware records request counts and latency by chi route pattern
func (c *Collector) HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		c.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		c.HTTPDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
