package narrative

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/DSafr2506/agent-for-chat-MAX/internal"
)

const efficiencyUnavailable = "Recommendations are unavailable (the model did not respond). " +
	"Check the API settings or try again later."

// Coach writes a short brief on lowering burnout risk. Without generated
// text it returns a rule-based plan.
func (w *Writer) Coach(ctx context.Context, risk internal.RiskResult, f internal.Features) string {
	factors, _ := json.Marshal(risk.Factors)
	prompt := fmt.Sprintf("Write a short brief (up to 80 words) on lowering burnout risk. "+
		"Give 3-5 concrete steps with reasons. Risk=%.1f. Factors=%s. "+
		"Sleep=%s h, steps=%s, meetings=%d min, stretch_without_break=%d min, context_switches=%d.",
		risk.RiskScore, factors, fmtFloat(f.SleepH), fmtInt(f.Steps),
		f.MeetingMinutes, f.LongestStretchNoBreak, f.ContextSwitches)

	if out := w.Completer.Complete(ctx, prompt, 200); out != "" {
		return out
	}
	w.fallback(KindCoach)
	return CoachFallback(risk, f)
}

// CoachFallback is the deterministic brief used when no text was generated.
func CoachFallback(risk internal.RiskResult, f internal.Features) string {
	var parts []string
	if risk.RiskScore >= 70 {
		parts = append(parts, "4-7-8 breathing (5 min) + 20 min do-not-disturb")
	}
	if f.Steps == nil || *f.Steps < 3000 {
		parts = append(parts, "a 10-15 min walk")
	}
	if f.LongestStretchNoBreak >= 120 {
		parts = append(parts, "a 5-10 min break every 55-70 min")
	}
	if f.MeetRatio > 0.5 {
		parts = append(parts, "group meetings; book a 60-90 min focus block")
	}
	if len(parts) == 0 {
		parts = []string{"scheduled breaks, water, a 15-min wind-down"}
	}
	return "Plan: " + strings.Join(parts, "; ") + "."
}

// Efficiency asks for productivity recommendations based on the day and
// its features.
func (w *Writer) Efficiency(ctx context.Context, s *internal.Snapshot, f internal.Features) internal.EfficiencyRecommendations {
	day := DaySummary(s)
	prompt := "You are a productivity and time-management expert. " +
		"Analyze the workday data and give concrete recommendations to improve effectiveness.\n\n" +
		"Day summary:\n" + day + "\n\n" +
		"Performance metrics:\n" + FeaturesSummary(f) + "\n\n" +
		"Give 5-7 concrete recommendations. Focus on:\n" +
		"- schedule and meeting optimization\n" +
		"- focus and concentration\n" +
		"- fewer context switches\n" +
		"- work and rest balance\n" +
		"- communication management\n\n" +
		"Each recommendation must be concrete and actionable and start with a verb."

	rec := w.Completer.Complete(ctx, prompt, 300)
	if rec == "" {
		w.fallback(KindEfficiency)
		rec = efficiencyUnavailable
	}
	return internal.EfficiencyRecommendations{Recommendations: rec, DaySummary: day}
}

func fmtFloat(v *float64) string {
	if v == nil {
		return "unknown"
	}
	return fmt.Sprintf("%.1f", *v)
}

func fmtInt(v *int) string {
	if v == nil {
		return "unknown"
	}
	return fmt.Sprintf("%d", *v)
}
