package narrative

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/DSafr2506/agent-for-chat-MAX/internal"
)

const fatigueUnavailable = "Fatigue assessment is unavailable (the model did not respond)."

// FatigueLoad asks for a structured fatigue and load estimate. Anything
// other than a parsable JSON object yields a zero "low" assessment.
func (w *Writer) FatigueLoad(ctx context.Context, s *internal.Snapshot, f internal.Features) internal.FatigueLoadAssessment {
	prompt := "Assess the employee's fatigue and workload from the data below. " +
		"Reply with a single JSON object and nothing else, with fields " +
		`"fatigue_score" (0-100), "load_score" (0-100), "level" ("low", "medium" or "high") ` +
		`and "explanation" (one or two sentences).` + "\n\n" +
		"Day summary:\n" + DaySummary(s) + "\n\n" +
		"Metrics:\n" + FeaturesSummary(f)

	raw := w.Completer.Complete(ctx, prompt, 250)
	if a, ok := parseFatigue(raw); ok {
		return a
	}
	w.fallback(KindFatigue)
	return internal.FatigueLoadAssessment{Level: internal.LevelLow, Explanation: fatigueUnavailable}
}

// parseFatigue extracts the first JSON object from raw. Scores are clamped
// to [0, 100] and an unknown level becomes "low".
func parseFatigue(raw string) (internal.FatigueLoadAssessment, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return internal.FatigueLoadAssessment{}, false
	}
	var a internal.FatigueLoadAssessment
	if err := json.Unmarshal([]byte(raw[start:end+1]), &a); err != nil {
		return internal.FatigueLoadAssessment{}, false
	}
	a.FatigueScore = clampScore(a.FatigueScore)
	a.LoadScore = clampScore(a.LoadScore)
	switch a.Level = strings.ToLower(strings.TrimSpace(a.Level)); a.Level {
	case internal.LevelLow, internal.LevelMedium, internal.LevelHigh:
	default:
		a.Level = internal.LevelLow
	}
	a.Explanation = strings.TrimSpace(a.Explanation)
	return a, true
}

func clampScore(v float64) float64 {
	return max(0, min(100, v))
}
