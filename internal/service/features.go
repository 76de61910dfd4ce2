package service

import (
	"math"
	"sort"
	"time"

	"github.com/DSafr2506/agent-for-chat-MAX/internal"
)

// backToBackGap is the largest gap, exclusive, between two meetings that
// still counts as back-to-back.
const backToBackGap = 5

var sleepQualityScores = map[string]float64{
	"poor":  0.25,
	"ok":    0.5,
	"good":  0.75,
	"great": 1.0,
}

// ExtractFeatures derives the workload aggregates of a validated snapshot.
func ExtractFeatures(s *internal.Snapshot) internal.Features {
	ws, we := s.Day.WorkStart, s.Day.WorkEnd
	f := internal.Features{WorkMinutes: minutesBetween(ws, we)}

	meetings := sortedIntervals(s.ItemsOfType(internal.ItemMeeting))
	for i, m := range meetings {
		f.MeetingMinutes += minutesBetween(m.Start, m.End)
		if i > 0 && minutesBetween(meetings[i-1].End, m.Start) < backToBackGap {
			f.BackToBackCount++
		}
	}
	f.MeetingsCount = len(meetings)
	f.DeepworkMinutes = totalMinutes(s.ItemsOfType(internal.ItemFocus))

	breaks := s.ItemsOfType(internal.ItemBreak)
	f.BreakMinutes = totalMinutes(breaks)
	f.LongestStretchNoBreak = longestStretch(ws, we, sortedIntervals(breaks))

	for _, t := range s.Tasks {
		f.ContextSwitches += t.ContextSwitches
		f.DistractionsMinutes += t.DistractionMinutes
	}

	if b := s.Biometrics; b != nil {
		f.Steps = copyInt(b.StepsTotal)
		f.SleepH = copyFloat(b.SleepHours)
		if b.SleepQuality != nil {
			if q, ok := sleepQualityScores[*b.SleepQuality]; ok {
				f.SleepQualityScore = &q
			}
		}
		f.AvgHR = copyFloat(b.AvgHR)
		f.HRVms = copyFloat(b.HRVms)
	}

	f.StressSelf = surveyMean(s.Surveys, func(e internal.SurveyEntry) *int { return e.Stress })
	f.FatigueSelf = surveyMean(s.Surveys, func(e internal.SurveyEntry) *int { return e.Fatigue })
	f.SatisfactionSelf = surveyMean(s.Surveys, func(e internal.SurveyEntry) *int { return e.Satisfaction })
	f.BurnoutSelf = surveyMean(s.Surveys, func(e internal.SurveyEntry) *int { return e.Burnout })

	if s.Comms != nil {
		f.CallsMinutes = s.Comms.CallsMinutes
		f.ChatsCount = s.Comms.ChatMessages
	}

	f.MeetRatio = float64(f.MeetingMinutes) / float64(max(1, f.WorkMinutes))
	return f
}

// longestStretch scans breaks in start order and returns the longest span
// of the workday not interrupted by a break, including the spans before the
// first break and after the last one.
func longestStretch(ws, we time.Time, breaks []internal.Interval) int {
	longest := 0
	cursor := ws
	for _, b := range breaks {
		longest = max(longest, minutesBetween(cursor, b.Start))
		cursor = b.End
	}
	return max(longest, minutesBetween(cursor, we))
}

func sortedIntervals(items []internal.ScheduleItem) []internal.Interval {
	out := make([]internal.Interval, 0, len(items))
	for _, it := range items {
		out = append(out, it.Interval())
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Start.Equal(out[j].Start) {
			return out[i].End.Before(out[j].End)
		}
		return out[i].Start.Before(out[j].Start)
	})
	return out
}

func totalMinutes(items []internal.ScheduleItem) int {
	total := 0
	for _, it := range items {
		total += minutesBetween(it.Start, it.End)
	}
	return total
}

func surveyMean(entries []internal.SurveyEntry, pick func(internal.SurveyEntry) *int) *float64 {
	sum, n := 0, 0
	for _, e := range entries {
		if v := pick(e); v != nil {
			sum += *v
			n++
		}
	}
	if n == 0 {
		return nil
	}
	mean := float64(sum) / float64(n)
	return &mean
}

// minutesBetween returns whole minutes from a to b, floored.
func minutesBetween(a, b time.Time) int {
	return int(math.Floor(b.Sub(a).Minutes()))
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
