package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DSafr2506/agent-for-chat-MAX/internal"
	"github.com/DSafr2506/agent-for-chat-MAX/internal/service"
)

type App interface {
	Logger() internal.Logger
	Analyzer() *service.Analyzer
	// MetricsHandler serves the Prometheus exposition; nil disables /metrics.
	MetricsHandler() http.Handler
}

// Register mounts every route on r.
func Register(r gin.IRouter, app App) {
	r.GET("/healthz", Healthz())
	if h := app.MetricsHandler(); h != nil {
		r.GET("/metrics", gin.WrapH(h))
	}
	r.POST("/analyze", PostAnalyze(app))
	r.POST("/analyze/batch", PostAnalyzeBatch(app))
	r.POST("/analyze-text", PostAnalyzeText(app))
	r.POST("/plan/ics", PostPlanICS(app))
}
