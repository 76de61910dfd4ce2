package service

import (
	"sort"
	"time"

	"github.com/DSafr2506/agent-for-chat-MAX/internal"
)

// FreeWindows sweeps the busy intervals in start order and returns the gaps
// inside [workStart, workEnd). Busy intervals are clipped to the work window,
// so the result together with the clipped busy set covers it exactly.
func FreeWindows(workStart, workEnd time.Time, busy []internal.Interval) []internal.Interval {
	clipped := make([]internal.Interval, 0, len(busy))
	for _, b := range busy {
		if b.Start.Before(workStart) {
			b.Start = workStart
		}
		if b.End.After(workEnd) {
			b.End = workEnd
		}
		if b.Start.Before(b.End) {
			clipped = append(clipped, b)
		}
	}
	sort.SliceStable(clipped, func(i, j int) bool { return clipped[i].Start.Before(clipped[j].Start) })

	var out []internal.Interval
	cursor := workStart
	for _, b := range clipped {
		if b.Start.After(cursor) {
			out = append(out, internal.Interval{Start: cursor, End: b.Start})
		}
		if b.End.After(cursor) {
			cursor = b.End
		}
	}
	if cursor.Before(workEnd) {
		out = append(out, internal.Interval{Start: cursor, End: workEnd})
	}
	return out
}

// WindowsAtLeast keeps windows lasting at least minMinutes whole minutes.
func WindowsAtLeast(windows []internal.Interval, minMinutes int) []internal.Interval {
	var out []internal.Interval
	for _, w := range windows {
		if minutesBetween(w.Start, w.End) >= minMinutes {
			out = append(out, w)
		}
	}
	return out
}

// BusyIntervals returns every non-break schedule item as an interval.
func BusyIntervals(s *internal.Snapshot) []internal.Interval {
	var out []internal.Interval
	for _, it := range s.Schedule {
		if it.Type != internal.ItemBreak {
			out = append(out, it.Interval())
		}
	}
	return out
}
