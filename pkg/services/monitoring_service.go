package services

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// LogEntry represents a single recorded request.
type LogEntry struct {
	Timestamp    time.Time     `json:"timestamp"`
	Path         string        `json:"path"`
	Method       string        `json:"method"`
	StatusCode   int           `json:"status_code"`
	ResponseTime time.Duration `json:"response_time"`
}

// MonitoringService records request logs in memory and exports Prometheus
// counters for the same traffic.
type MonitoringService struct {
	logs []LogEntry
	mu   sync.RWMutex

	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// NewMonitoringService creates a MonitoringService and registers its metrics
// on the given registry.
func NewMonitoringService(reg prometheus.Registerer) *MonitoringService {
	s := &MonitoringService{
		logs: make([]LogEntry, 0),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "carzo_http_requests_total",
			Help: "HTTP requests by method, path and status.",
		}, []string{"method", "path", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "carzo_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}
	if reg != nil {
		reg.MustRegister(s.requests, s.latency)
	}
	return s
}

// LogRequest records one request.
func (s *MonitoringService) LogRequest(entry LogEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = append(s.logs, entry)
}

// RecentLogs returns up to n most recent entries, newest first.
func (s *MonitoringService) RecentLogs(n int) []LogEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if n <= 0 || n > len(s.logs) {
		n = len(s.logs)
	}
	out := make([]LogEntry, 0, n)
	for i := len(s.logs) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, s.logs[i])
	}
	return out
}

// LoggingMiddleware records request metadata for every non-internal route.
func (s *MonitoringService) LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/metrics") || strings.HasPrefix(path, "/api/v1/monitoring") {
			return
		}

		elapsed := time.Since(start)
		status := c.Writer.Status()
		s.LogRequest(LogEntry{
			Timestamp:    start,
			Path:         path,
			Method:       c.Request.Method,
			StatusCode:   status,
			ResponseTime: elapsed,
		})
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		s.requests.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
		s.latency.WithLabelValues(c.Request.Method, route).Observe(elapsed.Seconds())
	}
}
