package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	WsConnections = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "mindhaven_ws_connections",
		Help: "Current number of active websocket connections",
	})
	WsPushTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mindhaven_ws_push_total",
		Help: "Websocket pushes by result",
	}, []string{"result"})
	OutboxRelayed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mindhaven_outbox_relayed_total",
		Help: "Outbox events relayed by result",
	}, []string{"result"})
	HttpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
	HttpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})
)

func init() {
	prometheus.MustRegister(WsConnections, WsPushTotal, OutboxRelayed, HttpRequestsTotal, HttpRequestDuration)
}

// GinMiddleware 统计请求数与耗时，路径使用路由模板避免高基数
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		status := strconv.Itoa(c.Writer.Status())
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		labels := prometheus.Labels{"method": c.Request.Method, "path": path, "status": status}
		HttpRequestsTotal.With(labels).Inc()
		HttpRequestDuration.With(labels).Observe(time.Since(start).Seconds())
	}
}
