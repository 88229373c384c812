package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// InitMetrics creates the fiberprometheus middleware exporting per-route
// request counts and latencies under the given service name.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware returns the Fiber handler for the prometheus middleware.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}

// Domain counters beyond the per-route metrics fiberprometheus already exports.
var (
	// ArticleReads counts successful read-count increments on the public
	// single-article path.
	ArticleReads = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inkwell_article_reads_total",
		Help: "Total number of published article reads",
	})

	// AuthFailures counts rejected requests on protected routes.
	AuthFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inkwell_auth_failures_total",
		Help: "Total number of failed authentication attempts",
	})

	// RedisErrors counts Redis command failures, labeled by command.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_redis_errors_total",
		Help: "Total number of Redis errors",
	}, []string{"command"})
)
