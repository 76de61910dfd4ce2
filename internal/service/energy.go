package service

import (
	"time"

	"github.com/DSafr2506/agent-for-chat-MAX/internal"
)

const DefaultEnergyStep = 30 * time.Minute

var chronoPeakHour = map[string]float64{
	internal.ChronoLark:    10,
	internal.ChronoOwl:     17,
	internal.ChronoNeutral: 14,
}

const (
	dipStartHour = 13.5
	dipEndHour   = 15.5
	dipDepth     = 0.12
)

// EnergyCurve samples predicted energy from work start to work end at the
// given step. A non-positive step falls back to DefaultEnergyStep.
func EnergyCurve(s *internal.Snapshot, f internal.Features, step time.Duration) []internal.EnergyPoint {
	if step <= 0 {
		step = DefaultEnergyStep
	}
	ws, we := s.Day.WorkStart, s.Day.WorkEnd
	n := max(1, int(we.Sub(ws)/step))

	peak, ok := chronoPeakHour[s.Chronotype()]
	if !ok {
		peak = chronoPeakHour[internal.ChronoNeutral]
	}
	penalty := 0.0
	if f.SleepH != nil {
		penalty = clamp((7.5-*f.SleepH)/3.0, 0, 0.35)
	}

	points := make([]internal.EnergyPoint, 0, n+1)
	for i := 0; i <= n; i++ {
		t := ws.Add(time.Duration(i) * step)
		hour := float64(t.Hour()) + float64(t.Minute())/60
		e := chronoBase(hour, peak)
		if hour >= dipStartHour && hour <= dipEndHour {
			e -= dipDepth
		}
		e -= penalty
		points = append(points, internal.EnergyPoint{TS: t, Energy: round(clamp(e, 0.2, 1.0), 3)})
	}
	return points
}

// chronoBase is an inverted parabola around the chronotype peak, rescaled
// into [0.4, 1.0].
func chronoBase(hour, peak float64) float64 {
	d := hour - peak
	val := -0.04*d*d + 1.0
	return clamp(0.4+0.6*val, 0.4, 1.0)
}

// MeanEnergy averages the points whose timestamp lies within [a, b]. It is
// zero when no point falls inside.
func MeanEnergy(points []internal.EnergyPoint, a, b time.Time) float64 {
	sum, n := 0.0, 0
	for _, p := range points {
		if p.TS.Before(a) || p.TS.After(b) {
			continue
		}
		sum += p.Energy
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
