package observability

import (
	"sync"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Like toggle outcomes recorded in BlogLikeToggles.
const (
	LikeAdded   = "liked"
	LikeRemoved = "unliked"
)

var (
	// BlogMutations counts successful blog writes by operation.
	BlogMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blog_mutations_total",
		Help: "Total number of successful blog mutations by operation",
	}, []string{"op"})

	// BlogLikeToggles counts like toggles by outcome.
	BlogLikeToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blog_like_toggles_total",
		Help: "Total number of like toggles by result",
	}, []string{"result"})

	// RedisErrors counts Redis failures by command.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})

	// WebSocketConnections is the gauge of live blog event subscribers.
	WebSocketConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "blog_websocket_connections",
		Help: "Number of active blog event WebSocket connections",
	})

	// WebSocketBackpressureDrops counts messages dropped due to backpressure by hub and reason.
	WebSocketBackpressureDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blog_websocket_backpressure_drops_total",
		Help: "Total number of WebSocket messages dropped due to backpressure",
	}, []string{"hub", "reason"})
)

// RecordMutation increments the mutation counter for op.
func RecordMutation(op string) {
	BlogMutations.WithLabelValues(op).Inc()
}

// RecordLikeToggle records whether a toggle added or removed a like.
func RecordLikeToggle(liked bool) {
	if liked {
		BlogLikeToggles.WithLabelValues(LikeAdded).Inc()
		return
	}
	BlogLikeToggles.WithLabelValues(LikeRemoved).Inc()
}

var (
	httpMetricsOnce sync.Once
	httpMetrics     *fiberprometheus.FiberPrometheus
)

// HTTPMetrics returns the process-wide request metrics middleware. The
// collectors live in the default registry, so they are created only once.
func HTTPMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	httpMetricsOnce.Do(func() {
		httpMetrics = fiberprometheus.New(serviceName)
	})
	return httpMetrics
}
