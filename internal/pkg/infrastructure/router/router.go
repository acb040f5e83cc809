package router

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/riandyrn/otelchi"
	"github.com/rs/cors"
)

var (
	requests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sensormonitor",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Number of handled http requests by route, method and status code.",
	}, []string{"route", "method", "code"})

	latency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "sensormonitor",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Duration of handled http requests by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})
)

// New returns a router with cors, tracing and request metrics in place and
// the prometheus registry exposed on /metrics.
func New(serviceName string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
		Debug:            false,
	}).Handler)

	r.Use(otelchi.Middleware(serviceName, otelchi.WithChiRoutes(r)))
	r.Use(middleware.Recoverer)
	r.Use(instrument)

	r.Handle("/metrics", promhttp.Handler())

	return r
}

func instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		requests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		latency.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}
