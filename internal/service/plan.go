package service

import (
	"fmt"
	"time"

	"github.com/DSafr2506/agent-for-chat-MAX/internal"
)

const (
	focusMinWindow  = 75
	focusMaxBlock   = 90
	focusMaxWindows = 3
	focusMinEnergy  = 0.65
	highRiskScore   = 70
	mediumRiskScore = 40
	rescheduleRatio = 0.6
	rescheduleB2B   = 3
	microEveryMin   = 25
	microEveryMax   = 90
	microLenMin     = 3
	microLenMax     = 10
)

// ProposePlan builds the day's interventions in a fixed order: microbreaks,
// focus blocks, risk-driven items, hydration and wind-down, then the
// reschedule hint. now only affects the start of the breathing item.
func ProposePlan(s *internal.Snapshot, f internal.Features, risk internal.RiskResult, energy []internal.EnergyPoint, now time.Time) []internal.PlanItem {
	ws, we := s.Day.WorkStart, s.Day.WorkEnd
	free := FreeWindows(ws, we, BusyIntervals(s))

	every := min(microEveryMax, max(microEveryMin, s.Day.MicrobreakEvery))
	length := min(microLenMax, max(microLenMin, s.Day.MicrobreakLen))
	everyD, lengthD := minutes(every), minutes(length)

	plan := []internal.PlanItem{}
	for _, w := range free {
		for cursor := w.Start.Add(everyD); !cursor.Add(lengthD).After(w.End); cursor = cursor.Add(everyD) {
			plan = append(plan, internal.PlanItem{
				Start:  cursor,
				End:    cursor.Add(lengthD),
				Kind:   internal.PlanMicrobreak,
				Title:  "Micro-break",
				Reason: fmt.Sprintf("Every %d min: a %d-min rest", every, length),
			})
		}
	}

	candidates := WindowsAtLeast(free, focusMinWindow)
	if len(candidates) > focusMaxWindows {
		candidates = candidates[:focusMaxWindows]
	}
	for _, w := range candidates {
		if MeanEnergy(energy, w.Start, w.End) < focusMinEnergy {
			continue
		}
		dur := min(focusMaxBlock, minutesBetween(w.Start, w.End))
		plan = append(plan, internal.PlanItem{
			Start:  w.Start,
			End:    w.Start.Add(minutes(dur)),
			Kind:   internal.PlanFocus,
			Title:  "Focus block",
			Reason: "High-energy window; less fragmentation",
		})
	}

	switch {
	case risk.RiskScore >= highRiskScore:
		start := ws
		if now.After(ws) {
			start = now
		}
		plan = append(plan,
			internal.PlanItem{
				Start:  start,
				End:    start.Add(minutes(5)),
				Kind:   internal.PlanBreathing,
				Title:  "Breathing practice 4-7-8",
				Reason: "High risk: release tension",
			},
			internal.PlanItem{
				Start:  ws.Add(minutes(90)),
				End:    ws.Add(minutes(110)),
				Kind:   internal.PlanNoNotifications,
				Title:  "Do not disturb for 20 min",
				Reason: "Fewer context switches",
			},
		)
	case risk.RiskScore >= mediumRiskScore:
		plan = append(plan, internal.PlanItem{
			Start:  ws.Add(minutes(120)),
			End:    ws.Add(minutes(135)),
			Kind:   internal.PlanWalk,
			Title:  "Walk for 15 min",
			Reason: "Medium risk: add some activity",
		})
	}

	plan = append(plan,
		internal.PlanItem{
			Start:  ws.Add(minutes(30)),
			End:    ws.Add(minutes(35)),
			Kind:   internal.PlanHydrate,
			Title:  "Water break",
			Reason: "Fatigue prevention",
		},
		internal.PlanItem{
			Start:  we.Add(-minutes(20)),
			End:    we.Add(-minutes(5)),
			Kind:   internal.PlanWinddown,
			Title:  "Wind down the day",
			Reason: "Review the day and plan tomorrow",
		},
	)

	if f.MeetRatio >= rescheduleRatio || f.BackToBackCount >= rescheduleB2B {
		plan = append(plan, internal.PlanItem{
			Start:  ws,
			End:    we,
			Kind:   internal.PlanRescheduleHint,
			Title:  "Group or shorten meetings",
			Reason: "Meetings take over 60% of the day or many are back-to-back",
		})
	}
	return plan
}

func minutes(n int) time.Duration { return time.Duration(n) * time.Minute }
