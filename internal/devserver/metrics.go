package devserver

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// metrics holds the request instrumentation of the stub backend.
type metrics struct {
	requests  *prometheus.CounterVec
	latency   *prometheus.HistogramVec
	plans     prometheus.Counter
	historyOp *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "etravel",
			Subsystem: "devserver",
			Name:      "requests_total",
			Help:      "HTTP requests handled, by route and status.",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "etravel",
			Subsystem: "devserver",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		plans: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "etravel",
			Subsystem: "devserver",
			Name:      "plans_generated_total",
			Help:      "Stub plans returned.",
		}),
		historyOp: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "etravel",
			Subsystem: "devserver",
			Name:      "history_operations_total",
			Help:      "Search history operations by kind.",
		}, []string{"op"}),
	}
	reg.MustRegister(m.requests, m.latency, m.plans, m.historyOp)
	return m
}

// middleware records every request once the handler chain has finished.
func (m *metrics) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		m.requests.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.latency.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}
