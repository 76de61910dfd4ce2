package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/DSafr2506/agent-for-chat-MAX/internal"
	"github.com/DSafr2506/agent-for-chat-MAX/internal/narrative"
)

const (
	defaultTextUserID    = "user"
	defaultTextWorkStart = "09:00:00"
	defaultTextWorkEnd   = "18:00:00"
)

// AnalysisObserver records the outcome of each analysis.
type AnalysisObserver interface {
	ObserveAnalysis(outcome string, d time.Duration)
}

// Analyzer runs the deterministic pipeline and then merges narrative text
// produced under a deadline. The zero value is not usable; use NewAnalyzer.
type Analyzer struct {
	Logger           internal.Logger
	Writer           *narrative.Writer
	Metrics          AnalysisObserver
	Clock            func() time.Time
	Workers          int
	NarrativeTimeout time.Duration
}

// BatchResult holds one batch item. Exactly one of Output and Error is set.
type BatchResult struct {
	Output *internal.Output   `json:"output,omitempty"`
	Error  *internal.AppError `json:"error,omitempty"`
}

func NewAnalyzer(logger internal.Logger, w *narrative.Writer, metrics AnalysisObserver) *Analyzer {
	if logger == nil {
		logger = internal.NopLogger()
	}
	if w == nil {
		w = narrative.NewWriter(nil, nil, nil)
	}
	return &Analyzer{
		Logger:           logger,
		Writer:           w,
		Metrics:          metrics,
		Clock:            time.Now,
		Workers:          4,
		NarrativeTimeout: 90 * time.Second,
	}
}

// Analyze parses payload as a single snapshot and analyzes it.
func (a *Analyzer) Analyze(ctx context.Context, payload []byte) (*internal.Output, error) {
	start := time.Now()
	s, err := ParseSnapshot(payload)
	if err != nil {
		a.observe("invalid", start)
		return nil, err
	}
	return a.AnalyzeSnapshot(ctx, s), nil
}

// AnalyzeSnapshot never fails: narrative sections that cannot be produced in
// time fall back to rule-based text.
func (a *Analyzer) AnalyzeSnapshot(ctx context.Context, s *internal.Snapshot) *internal.Output {
	start := time.Now()
	out := &internal.Output{Report: Analyze(s, a.Clock())}
	a.narrate(ctx, s, out)
	a.observe("ok", start)
	a.Logger.Debugf("analysis done user=%s risk=%.1f plan=%d", s.UserID, out.Risk.RiskScore, len(out.Plan))
	return out
}

// narrate fills the narrative sections concurrently. Each goroutine writes a
// distinct field of out.
func (a *Analyzer) narrate(ctx context.Context, s *internal.Snapshot, out *internal.Output) {
	if a.NarrativeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.NarrativeTimeout)
		defer cancel()
	}
	w := a.Writer
	f, risk := out.Features, out.Risk

	var g errgroup.Group
	g.Go(func() error {
		out.CoachMessage = w.Coach(ctx, risk, f)
		return nil
	})
	g.Go(func() error {
		out.EfficiencyRecommendations = w.Efficiency(ctx, s, f)
		return nil
	})
	g.Go(func() error {
		fl := w.FatigueLoad(ctx, s, f)
		out.FatigueLoad = &fl
		return nil
	})
	g.Go(func() error {
		if sum := w.InboxSummary(ctx, s.InboxSamples); sum != "" {
			out.CommTriage.InboxSummary = sum
		}
		return nil
	})
	g.Go(func() error {
		out.RAGAdvice = w.RAGAdvice(ctx, s, f, risk)
		return nil
	})
	_ = g.Wait()
}

// AnalyzeBatch analyzes every payload with bounded parallelism. Results keep
// input order and a bad item does not affect the others.
func (a *Analyzer) AnalyzeBatch(ctx context.Context, payloads [][]byte) []BatchResult {
	results := make([]BatchResult, len(payloads))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, a.Workers))
	for i, p := range payloads {
		g.Go(func() error {
			out, err := a.Analyze(ctx, p)
			if err != nil {
				results[i].Error = ToAppError(err)
				a.Logger.Warnf("batch item %d rejected: %v", i, err)
				return nil
			}
			results[i].Output = out
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// AnalyzeText builds a default 09:00-18:00 day for today in tz with text as
// the only inbox sample, then analyzes it.
func (a *Analyzer) AnalyzeText(ctx context.Context, text, userID, tz string) (*internal.Output, error) {
	start := time.Now()
	if strings.TrimSpace(text) == "" {
		a.observe("invalid", start)
		return nil, &internal.ValidationError{Fields: []internal.FieldError{{Field: "text", Rule: "required"}}}
	}
	if userID == "" {
		userID = defaultTextUserID
	}
	loc := time.UTC
	if tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			a.observe("invalid", start)
			return nil, &internal.ValidationError{Fields: []internal.FieldError{{Field: "tz", Rule: "tzname", Value: tz}}}
		}
		loc = l
	}
	today := a.Clock().In(loc).Format("2006-01-02")
	req := &SnapshotRequest{
		UserID: userID,
		Date:   today,
		TZ:     tz,
		Day: WorkDayRequest{
			WorkStart: today + "T" + defaultTextWorkStart,
			WorkEnd:   today + "T" + defaultTextWorkEnd,
		},
		InboxSamples: []string{text},
	}
	s, err := BuildSnapshot(req)
	if err != nil {
		a.observe("invalid", start)
		return nil, err
	}
	return a.AnalyzeSnapshot(ctx, s), nil
}

func (a *Analyzer) observe(outcome string, start time.Time) {
	if a.Metrics != nil {
		a.Metrics.ObserveAnalysis(outcome, time.Since(start))
	}
}

// ToAppError maps an analysis error onto the API error shape.
func ToAppError(err error) *internal.AppError {
	if verr, ok := internal.AsValidation(err); ok {
		appErr := internal.NewAppError(http.StatusBadRequest, "invalid snapshot")
		appErr.Fields = verr.Fields
		return appErr
	}
	var appErr *internal.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return internal.NewAppError(http.StatusInternalServerError, fmt.Sprintf("analysis failed: %v", err))
}
