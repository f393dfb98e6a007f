// Package server exposes a session over a local HTTP API.
package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/runnerr0/milestones/internal/app"
	"github.com/runnerr0/milestones/internal/chart"
	"github.com/runnerr0/milestones/internal/metrics"
)

// Pinger reports whether the storage backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewRouter builds the HTTP routes for session. store may be nil, in which
// case readiness only reflects the last save.
func NewRouter(session *app.Session, store Pinger, logger *zap.Logger, m *metrics.Metrics, svgOpts chart.SVGOptions) *gin.Engine {
	r := gin.New()
	// Timeline names are free text and may contain an escaped '/'.
	r.UseRawPath = true
	r.UnescapePathValues = true
	r.Use(gin.Recovery())

	r.Use(func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		logger.Info("HTTP Request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
		if m != nil {
			route := c.FullPath()
			if route == "" {
				route = "unmatched"
			}
			m.RecordHTTPRequest(c.Request.Method, route, strconv.Itoa(status), latency)
		}
	})

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.HEAD("/healthz", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	r.GET("/readyz", func(c *gin.Context) {
		if store != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := store.Ping(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "storage_unreachable", "error": err.Error()})
				return
			}
		}
		if err := session.PersistErr(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "persist_failing", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	h := NewHandler(session, logger, svgOpts)

	api := r.Group("/api")
	api.GET("/milestones", h.ListMilestones)
	api.GET("/milestones/:id", h.GetMilestone)
	api.POST("/milestones", h.CreateMilestone)
	api.PUT("/milestones/:id", h.UpdateMilestone)
	api.DELETE("/milestones/:id", h.DeleteMilestone)
	api.GET("/timelines", h.ListTimelines)
	api.POST("/timelines/:name/toggle", h.ToggleTimeline)
	api.GET("/chart", h.Chart)

	r.GET("/chart.svg", h.ChartSVG)

	if m != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})))
	}

	return r
}
