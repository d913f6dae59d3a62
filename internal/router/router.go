package router

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/carebridge/carebridge-api/internal/handler"
	"github.com/carebridge/carebridge-api/internal/middleware"
)

type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

type Router struct {
	engine        *gin.Engine
	h             *handler.Handler
	appointmentH  Handler
	emergencyH    Handler
	assignmentH   Handler
	notificationH Handler
	medicationH   Handler
	recordH       Handler
	prescriptionH Handler
	metrics       *routerMetrics
	cacheTTL      time.Duration
}

type routerMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
}

type Config struct {
	RateLimit  middleware.RateLimiterConfig
	CORSConfig middleware.CORSConfig
	CacheTTL   time.Duration
}

func NewRouter(
	h *handler.Handler,
	appointmentH Handler,
	emergencyH Handler,
	assignmentH Handler,
	notificationH Handler,
	medicationH Handler,
	recordH Handler,
	prescriptionH Handler,
	config Config,
) *Router {
	gin.SetMode(gin.ReleaseMode)

	r := &Router{
		engine:        gin.New(),
		h:             h,
		appointmentH:  appointmentH,
		emergencyH:    emergencyH,
		assignmentH:   assignmentH,
		notificationH: notificationH,
		medicationH:   medicationH,
		recordH:       recordH,
		prescriptionH: prescriptionH,
		metrics:       initRouterMetrics(),
		cacheTTL:      config.CacheTTL,
	}

	r.engine.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.ErrorHandler(),
		r.metricsMiddleware(),
		middleware.CORS(config.CORSConfig),
		middleware.NewRateLimiter(config.RateLimit).RateLimit(),
	)

	return r
}

func initRouterMetrics() *routerMetrics {
	return &routerMetrics{
		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		requestTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
	}
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		r.metrics.requestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
		r.metrics.requestTotal.WithLabelValues(c.Request.Method, path, status).Inc()
	}
}

func (r *Router) Setup() {
	api := r.engine.Group("/api/v1")

	api.Use(func(c *gin.Context) {
		c.Header("X-API-Version", "1.0")
		c.Next()
	})

	r.setupHealthCheck(api)

	// Everything beyond health requires an identified caller.
	authed := api.Group("")
	authed.Use(middleware.Actor())
	authed.Use(middleware.NewResponseCache(r.cacheTTL).Cache())

	r.appointmentH.RegisterRoutes(authed)
	r.emergencyH.RegisterRoutes(authed)
	r.assignmentH.RegisterRoutes(authed)
	r.notificationH.RegisterRoutes(authed)
	r.medicationH.RegisterRoutes(authed)
	r.recordH.RegisterRoutes(authed)
	r.prescriptionH.RegisterRoutes(authed)
}

func (r *Router) setupHealthCheck(rg *gin.RouterGroup) {
	health := rg.Group("/health")
	{
		health.GET("/live", r.h.LivenessCheck)
		health.GET("/ready", r.h.ReadinessCheck)
		health.GET("/metrics", r.h.MetricsHandler)
	}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
