package service

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DSafr2506/agent-for-chat-MAX/internal"
)

func TestFreeWindowsPartition(t *testing.T) {
	busy := []internal.Interval{
		{Start: at(10, 30), End: at(11, 30)},
		{Start: at(8, 0), End: at(9, 30)},
		{Start: at(10, 0), End: at(11, 0)},
		{Start: at(17, 30), End: at(19, 0)},
		{Start: at(19, 0), End: at(20, 0)},
	}
	free := FreeWindows(at(9, 0), at(18, 0), busy)
	assert.Equal(t, []internal.Interval{
		{Start: at(9, 30), End: at(10, 0)},
		{Start: at(11, 30), End: at(17, 30)},
	}, free)

	// Free time plus merged busy time covers the workday exactly.
	busyMinutes := 30 + 90 + 30
	freeMinutes := 0
	for _, w := range free {
		freeMinutes += minutesBetween(w.Start, w.End)
		for _, b := range busy {
			assert.False(t, w.Start.Before(b.End) && b.Start.Before(w.End), "window overlaps busy")
		}
	}
	assert.Equal(t, 540, freeMinutes+busyMinutes)
}

func TestFreeWindowsEdges(t *testing.T) {
	assert.Equal(t, []internal.Interval{{Start: at(9, 0), End: at(18, 0)}}, FreeWindows(at(9, 0), at(18, 0), nil))
	assert.Empty(t, FreeWindows(at(9, 0), at(18, 0), []internal.Interval{{Start: at(8, 0), End: at(19, 0)}}))

	windows := []internal.Interval{{Start: at(9, 0), End: at(10, 14)}, {Start: at(11, 0), End: at(12, 15)}}
	assert.Equal(t, windows[1:], WindowsAtLeast(windows, 75))
}

func TestBusyIntervalsSkipsBreaks(t *testing.T) {
	s := &internal.Snapshot{Schedule: []internal.ScheduleItem{
		item(internal.ItemMeeting, 9, 0, 10, 0),
		item(internal.ItemBreak, 10, 0, 10, 15),
		item(internal.ItemPersonal, 12, 0, 13, 0),
	}}
	assert.Len(t, BusyIntervals(s), 2)
}

func kinds(items []internal.PlanItem, kind string) []internal.PlanItem {
	var out []internal.PlanItem
	for _, it := range items {
		if it.Kind == kind {
			out = append(out, it)
		}
	}
	return out
}

func TestProposePlanMicrobreakSpacing(t *testing.T) {
	s := &internal.Snapshot{Day: day(9, 12)}
	f := ExtractFeatures(s)
	plan := ProposePlan(s, f, internal.RiskResult{}, EnergyCurve(s, f, DefaultEnergyStep), at(8, 0))

	breaks := kinds(plan, internal.PlanMicrobreak)
	require.Len(t, breaks, 3)
	assert.Equal(t, at(9, 55), breaks[0].Start)
	for i, b := range breaks {
		assert.Equal(t, 5*time.Minute, b.End.Sub(b.Start))
		assert.False(t, b.End.After(at(12, 0)))
		if i > 0 {
			assert.Equal(t, 55*time.Minute, b.Start.Sub(breaks[i-1].Start))
		}
	}
}

func TestProposePlanClampsCadence(t *testing.T) {
	s := &internal.Snapshot{Day: day(9, 10)}
	s.Day.MicrobreakEvery = 5
	s.Day.MicrobreakLen = 30
	plan := ProposePlan(s, ExtractFeatures(s), internal.RiskResult{}, nil, at(8, 0))
	breaks := kinds(plan, internal.PlanMicrobreak)
	require.Len(t, breaks, 2)
	assert.Equal(t, at(9, 25), breaks[0].Start)
	assert.Equal(t, at(9, 35), breaks[0].End)
}

func TestProposePlanOrderAndNow(t *testing.T) {
	s := &internal.Snapshot{Day: day(9, 12), Persona: &internal.Persona{Chronotype: internal.ChronoLark}}
	f := ExtractFeatures(s)
	energy := EnergyCurve(s, f, DefaultEnergyStep)
	risk := internal.RiskResult{RiskScore: 80}

	plan := ProposePlan(s, f, risk, energy, at(10, 15))
	var order []string
	for _, it := range plan {
		order = append(order, it.Kind)
	}
	assert.Equal(t, []string{
		internal.PlanMicrobreak, internal.PlanMicrobreak, internal.PlanMicrobreak,
		internal.PlanFocus,
		internal.PlanBreathing, internal.PlanNoNotifications,
		internal.PlanHydrate, internal.PlanWinddown,
	}, order)

	focus := kinds(plan, internal.PlanFocus)[0]
	assert.Equal(t, at(9, 0), focus.Start)
	assert.Equal(t, at(10, 30), focus.End)
	assert.Equal(t, at(10, 15), kinds(plan, internal.PlanBreathing)[0].Start)

	early := ProposePlan(s, f, risk, energy, at(7, 0))
	assert.Equal(t, at(9, 0), kinds(early, internal.PlanBreathing)[0].Start)
}

func TestProposePlanMediumRiskAndReschedule(t *testing.T) {
	s := &internal.Snapshot{Day: day(9, 18)}
	f := internal.Features{WorkMinutes: 540, MeetRatio: 0.7}
	plan := ProposePlan(s, f, internal.RiskResult{RiskScore: 50}, nil, at(12, 0))

	walk := kinds(plan, internal.PlanWalk)
	require.Len(t, walk, 1)
	assert.Equal(t, at(11, 0), walk[0].Start)
	assert.Empty(t, kinds(plan, internal.PlanBreathing))
	// Without energy samples no window qualifies for focus.
	assert.Empty(t, kinds(plan, internal.PlanFocus))
	last := plan[len(plan)-1]
	assert.Equal(t, internal.PlanRescheduleHint, last.Kind)
	assert.Equal(t, at(9, 0), last.Start)
	assert.Equal(t, at(18, 0), last.End)
}

func TestProposePlanFocusTakesFirstThreeWindows(t *testing.T) {
	s := &internal.Snapshot{
		Day: day(8, 20),
		Schedule: []internal.ScheduleItem{
			item(internal.ItemMeeting, 9, 30, 10, 0),
			item(internal.ItemMeeting, 11, 30, 12, 0),
			item(internal.ItemMeeting, 13, 30, 14, 0),
		},
	}
	f := ExtractFeatures(s)
	var energy []internal.EnergyPoint
	for ts := at(8, 0); !ts.After(at(20, 0)); ts = ts.Add(30 * time.Minute) {
		energy = append(energy, internal.EnergyPoint{TS: ts, Energy: 0.9})
	}
	focus := kinds(ProposePlan(s, f, internal.RiskResult{}, energy, at(8, 0)), internal.PlanFocus)
	require.Len(t, focus, 3)
	assert.Equal(t, at(8, 0), focus[0].Start)
	assert.Equal(t, at(10, 0), focus[1].Start)
	assert.Equal(t, at(12, 0), focus[2].Start)
	assert.Equal(t, at(13, 30), focus[2].End)
}

func TestAnalyzeIsIdempotent(t *testing.T) {
	s := loadFixture(t)
	now := time.Date(2025, 3, 10, 9, 45, 0, 0, time.UTC)
	a, err := json.Marshal(Analyze(s, now))
	require.NoError(t, err)
	b, err := json.Marshal(Analyze(s, now))
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}
