package api

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DSafr2506/agent-for-chat-MAX/internal/service"
	"github.com/DSafr2506/agent-for-chat-MAX/internal/storage"
)

// TextRequest is the body of POST /analyze-text.
type TextRequest struct {
	Text   string `json:"text" binding:"required"`
	UserID string `json:"user_id"`
	TZ     string `json:"tz"`
}

func Healthz() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

func PostAnalyze(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := readBody(c)
		if err != nil {
			HandleError(c, app.Logger(), err, statusForRead(err), "Failed to read body")
			return
		}
		out, err := app.Analyzer().Analyze(c.Request.Context(), body)
		if err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Validation failed")
			return
		}
		HandleSuccess(c, app.Logger(), out, nil)
	}
}

// PostAnalyzeBatch accepts an array of snapshots, a {"snapshots": [...]}
// wrapper or a single snapshot. Item failures are reported in place.
func PostAnalyzeBatch(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := readBody(c)
		if err != nil {
			HandleError(c, app.Logger(), err, statusForRead(err), "Failed to read body")
			return
		}
		payload, err := storage.DecodePayload(bytes.NewReader(body))
		if err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Invalid JSON")
			return
		}
		results := app.Analyzer().AnalyzeBatch(c.Request.Context(), payload.Items)
		failed := 0
		for _, r := range results {
			if r.Error != nil {
				failed++
			}
		}
		HandleSuccess(c, app.Logger(), results, map[string]any{"count": len(results), "failed": failed})
	}
}

func PostAnalyzeText(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req TextRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Invalid JSON")
			return
		}
		out, err := app.Analyzer().AnalyzeText(c.Request.Context(), req.Text, req.UserID, req.TZ)
		if err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Validation failed")
			return
		}
		HandleSuccess(c, app.Logger(), out, nil)
	}
}

// PostPlanICS runs only the deterministic pipeline and returns the plan as
// an iCalendar attachment.
func PostPlanICS(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := readBody(c)
		if err != nil {
			HandleError(c, app.Logger(), err, statusForRead(err), "Failed to read body")
			return
		}
		s, err := service.ParseSnapshot(body)
		if err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Validation failed")
			return
		}
		report := service.Analyze(s, app.Analyzer().Clock())
		app.Logger().Infof("[request_id=%s] plan exported items=%d", c.GetString("request_id"), len(report.Plan))
		c.Header("Content-Disposition", `attachment; filename="plan.ics"`)
		c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(report.ICSCalendar))
	}
}

func readBody(c *gin.Context) ([]byte, error) {
	if c.Request.Body == nil {
		return nil, errEmptyBody
	}
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, errEmptyBody
	}
	return body, nil
}

var errEmptyBody = errors.New("request body is empty")

func statusForRead(err error) int {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}
