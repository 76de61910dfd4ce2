package service

import (
	"fmt"
	"math"

	"github.com/DSafr2506/agent-for-chat-MAX/internal"
)

// Fallback contributions used when a biometric is missing.
const (
	unknownSleepDebt   = 0.3
	unknownLowActivity = 0.2
)

const (
	NoteNoSleepData = "no sleep data"
	NoteNoStepsData = "no steps data"
)

// ScoreRisk combines features and optional adherence history into a 0–100
// burnout-risk score. Only factors that are present contribute weight to the
// denominator.
func ScoreRisk(f internal.Features, rec *internal.RecHistory) internal.RiskResult {
	var set internal.FactorSet
	notes := []string{}

	if f.SleepH != nil {
		debt := math.Max(0, 7.5-*f.SleepH)
		set.Set(internal.FactorSleepDebt, clamp(debt/4.0, 0, 1))
		if debt >= 1.5 {
			notes = append(notes, fmt.Sprintf("sleep debt %.1fh", debt))
		}
	} else {
		set.Set(internal.FactorSleepDebt, unknownSleepDebt)
		notes = append(notes, NoteNoSleepData)
	}

	if f.Steps != nil {
		steps := *f.Steps
		switch {
		case steps < 3000:
			set.Set(internal.FactorLowActivity, 1.0)
			notes = append(notes, "low activity (<3k steps)")
		case steps < 8000:
			set.Set(internal.FactorLowActivity, 0.4)
		default:
			set.Set(internal.FactorLowActivity, 0.1)
		}
	} else {
		set.Set(internal.FactorLowActivity, unknownLowActivity)
		notes = append(notes, NoteNoStepsData)
	}

	overH := float64(max(0, f.WorkMinutes-9*60)) / 60
	set.Set(internal.FactorOvertime, clamp(overH/3.0, 0, 1))
	if overH >= 1.0 {
		notes = append(notes, fmt.Sprintf("overtime %.1fh", overH))
	}

	set.Set(internal.FactorLongStretch, clamp(float64(f.LongestStretchNoBreak-90)/90, 0, 1))
	if f.LongestStretchNoBreak >= 120 {
		notes = append(notes, fmt.Sprintf("no break for %d min", f.LongestStretchNoBreak))
	}

	set.Set(internal.FactorMeetingLoad, clamp((f.MeetRatio-0.3)/0.3, 0, 1))
	if f.MeetRatio >= 0.5 {
		notes = append(notes, "high share of meetings")
	}

	set.Set(internal.FactorBackToBack, clamp(float64(f.BackToBackCount)/4, 0, 1))
	if f.BackToBackCount >= 3 {
		notes = append(notes, "many back-to-back meetings")
	}

	set.Set(internal.FactorContextSwitches, clamp(float64(f.ContextSwitches)/20, 0, 1))
	if f.ContextSwitches >= 15 {
		notes = append(notes, "frequent context switches")
	}

	set.Set(internal.FactorDistractions, clamp(float64(f.DistractionsMinutes)/60, 0, 1))
	if f.DistractionsMinutes >= 30 {
		notes = append(notes, "distractions over 30 min")
	}

	selfReport(&set, internal.FactorStressSelf, f.StressSelf)
	selfReport(&set, internal.FactorFatigueSelf, f.FatigueSelf)
	selfReport(&set, internal.FactorBurnoutSelf, f.BurnoutSelf)

	if f.AvgHR != nil && *f.AvgHR >= 90 {
		set.Set(internal.FactorElevatedHR, 1.0)
		notes = append(notes, "elevated average heart rate")
	}
	if f.HRVms != nil && *f.HRVms <= 35 {
		set.Set(internal.FactorLowHRV, 1.0)
		notes = append(notes, "low heart rate variability")
	}

	if rec != nil {
		set.Set(internal.FactorLowAdherence, clamp((0.6-acceptanceRate(*rec))/0.6, 0, 1))
	}

	score, weight := set.WeightedScore()
	risk := 0.0
	if weight > 0 {
		risk = clamp(100*score/weight, 0, 100)
	}
	return internal.RiskResult{
		RiskScore: round(risk, 1),
		Factors:   set,
		Notes:     notes,
	}
}

// acceptanceRate treats a history with no recorded outcomes as 0.0.
func acceptanceRate(r internal.RecHistory) float64 {
	total := r.Total()
	if total == 0 {
		return 0
	}
	return float64(r.Accepted) / float64(total)
}

func selfReport(set *internal.FactorSet, f internal.Factor, v *float64) {
	if v == nil {
		return
	}
	set.Set(f, clamp((*v-5)/5, 0, 1))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}
