package httpadapter

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// RegisterRoutes mounts the API on rg. limiter, when non-nil, throttles the
// estimation routes; storage and catalog lookups are never throttled.
func RegisterRoutes(rg *gin.RouterGroup, h *Handler, limiter *rate.Limiter) {
	estimate := rg.Group("")
	if limiter != nil {
		estimate.Use(RateLimit(limiter))
	}
	{
		estimate.POST("/estimate/independent", h.HandleIndependent)
		estimate.POST("/estimate/joint", h.HandleJoint)
		estimate.POST("/estimate/gain", h.HandleGain)
		estimate.POST("/target", h.HandleTarget)
	}

	rg.POST("/positions", h.HandleSave)
	rg.GET("/positions", h.HandleList)
	rg.GET("/positions/:id", h.HandleLoad)
	rg.GET("/presets", h.HandlePresets)
}

// NewRouter builds the engine: recovery, request logging, the API under /api,
// /metrics and /healthz.
func NewRouter(h *Handler, limiter *rate.Limiter) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(h.logger))
	RegisterRoutes(r.Group("/api"), h, limiter)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	return r
}

// RateLimit rejects requests with 429 once limiter has no tokens left.
func RateLimit(limiter *rate.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorResponse{Error: "rate limit exceeded", Code: "rate_limited"})
			return
		}
		c.Next()
	}
}

func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.FullPath()),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("duration", time.Since(start)))
	}
}
