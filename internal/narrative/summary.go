package narrative

import (
	"fmt"
	"strings"

	"github.com/DSafr2506/agent-for-chat-MAX/internal"
)

const noDayData = "Minimal data about the day"

// DaySummary describes the raw snapshot in a few sentences for prompts.
func DaySummary(s *internal.Snapshot) string {
	var parts []string

	if len(s.Schedule) > 0 {
		meetings := s.ItemsOfType(internal.ItemMeeting)
		focus := s.ItemsOfType(internal.ItemFocus)
		parts = append(parts, fmt.Sprintf("Meetings: %d, focus blocks: %d", len(meetings), len(focus)))
		if len(meetings) > 0 {
			titles := make([]string, 0, 5)
			for i, m := range meetings {
				if i == 5 {
					break
				}
				titles = append(titles, m.Title)
			}
			parts = append(parts, "Meeting titles: "+strings.Join(titles, ", "))
		}
	}

	if b := s.Biometrics; b != nil {
		if b.StepsTotal != nil && *b.StepsTotal > 0 {
			parts = append(parts, fmt.Sprintf("Steps: %d", *b.StepsTotal))
		}
		if b.SleepHours != nil && *b.SleepHours > 0 {
			q := "unknown"
			if b.SleepQuality != nil {
				q = *b.SleepQuality
			}
			parts = append(parts, fmt.Sprintf("Sleep: %.1fh, quality: %s", *b.SleepHours, q))
		}
	}

	if c := s.Comms; c != nil {
		parts = append(parts, fmt.Sprintf("Communications: %d messages, %d email threads, %d min of calls",
			c.ChatMessages, c.EmailThreads, c.CallsMinutes))
	}

	switches, distractions := 0, 0
	for _, t := range s.Tasks {
		switches += t.ContextSwitches
		distractions += t.DistractionMinutes
	}
	if switches > 0 || distractions > 0 {
		parts = append(parts, fmt.Sprintf("Context switches: %d, distractions: %d min", switches, distractions))
	}

	if wb := lastWellbeing(s); wb != "" {
		parts = append(parts, "Self-report: "+wb)
	}

	if len(parts) == 0 {
		return noDayData
	}
	return strings.Join(parts, ". ")
}

// FeaturesSummary describes the derived features for prompts.
func FeaturesSummary(f internal.Features) string {
	parts := []string{
		fmt.Sprintf("Work time: %dh %dmin", f.WorkMinutes/60, f.WorkMinutes%60),
		fmt.Sprintf("Meetings: %dmin (%.0f%% of the day)", f.MeetingMinutes, f.MeetRatio*100),
		fmt.Sprintf("Focus time: %dmin", f.DeepworkMinutes),
		fmt.Sprintf("Breaks: %dmin", f.BreakMinutes),
	}
	if f.BackToBackCount > 0 {
		parts = append(parts, fmt.Sprintf("Back-to-back meetings: %d", f.BackToBackCount))
	}
	if f.LongestStretchNoBreak > 90 {
		parts = append(parts, fmt.Sprintf("Longest stretch without a break: %dmin", f.LongestStretchNoBreak))
	}
	if f.ContextSwitches > 0 {
		parts = append(parts, fmt.Sprintf("Context switches: %d", f.ContextSwitches))
	}
	if f.DistractionsMinutes > 0 {
		parts = append(parts, fmt.Sprintf("Distraction time: %dmin", f.DistractionsMinutes))
	}
	if f.Steps != nil {
		parts = append(parts, fmt.Sprintf("Steps: %d", *f.Steps))
	}
	if f.SleepH != nil {
		parts = append(parts, fmt.Sprintf("Sleep: %.1fh", *f.SleepH))
	}
	return strings.Join(parts, ". ")
}

// lastWellbeing renders stress and fatigue from the latest survey entry.
func lastWellbeing(s *internal.Snapshot) string {
	if len(s.Surveys) == 0 {
		return ""
	}
	last := s.Surveys[len(s.Surveys)-1]
	var vals []string
	if last.Stress != nil {
		vals = append(vals, fmt.Sprintf("stress %d/10", *last.Stress))
	}
	if last.Fatigue != nil {
		vals = append(vals, fmt.Sprintf("fatigue %d/10", *last.Fatigue))
	}
	return strings.Join(vals, ", ")
}
