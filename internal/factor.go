package internal

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Factor enumerates the burnout-risk contributors.
type Factor int

const (
	FactorSleepDebt Factor = iota
	FactorLowActivity
	FactorOvertime
	FactorLongStretch
	FactorMeetingLoad
	FactorBackToBack
	FactorContextSwitches
	FactorDistractions
	FactorStressSelf
	FactorFatigueSelf
	FactorBurnoutSelf
	FactorElevatedHR
	FactorLowHRV
	FactorLowAdherence
	factorCount
)

var factorNames = [factorCount]string{
	"sleep_debt",
	"low_activity",
	"overtime",
	"long_stretch",
	"meeting_load",
	"back_to_back",
	"context_switches",
	"distractions",
	"stress_self",
	"fatigue_self",
	"burnout_self",
	"elevated_hr",
	"low_hrv",
	"low_adherence",
}

var factorWeights = [factorCount]float64{
	16, 8, 12, 10,
	10, 6, 8, 6,
	8, 6, 10,
	6, 4, 4,
}

// Factors lists every factor in table order.
func Factors() []Factor {
	out := make([]Factor, factorCount)
	for i := range out {
		out[i] = Factor(i)
	}
	return out
}

func (f Factor) String() string {
	if f < 0 || f >= factorCount {
		return "factor(" + strconv.Itoa(int(f)) + ")"
	}
	return factorNames[f]
}

func (f Factor) Weight() float64 {
	if f < 0 || f >= factorCount {
		return 0
	}
	return factorWeights[f]
}

// FactorSet holds normalized contributions and tracks which factors were
// actually observed for the day.
type FactorSet struct {
	values  [factorCount]float64
	present [factorCount]bool
}

func (s *FactorSet) Set(f Factor, v float64) {
	s.values[f] = v
	s.present[f] = true
}

func (s FactorSet) Get(f Factor) (float64, bool) {
	return s.values[f], s.present[f]
}

func (s FactorSet) Has(f Factor) bool { return s.present[f] }

// Len reports how many factors are present.
func (s FactorSet) Len() int {
	n := 0
	for _, p := range s.present {
		if p {
			n++
		}
	}
	return n
}

// WeightedScore returns the weighted contribution sum and the sum of weights
// of present factors only.
func (s FactorSet) WeightedScore() (score, weight float64) {
	for i := Factor(0); i < factorCount; i++ {
		if !s.present[i] {
			continue
		}
		score += factorWeights[i] * s.values[i]
		weight += factorWeights[i]
	}
	return score, weight
}

func (s FactorSet) Map() map[string]float64 {
	out := make(map[string]float64, s.Len())
	for i := Factor(0); i < factorCount; i++ {
		if s.present[i] {
			out[factorNames[i]] = s.values[i]
		}
	}
	return out
}

// MarshalJSON writes present factors as an object in table order.
func (s FactorSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for i := Factor(0); i < factorCount; i++ {
		if !s.present[i] {
			continue
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		buf.WriteString(strconv.Quote(factorNames[i]))
		buf.WriteByte(':')
		buf.WriteString(strconv.FormatFloat(s.values[i], 'f', -1, 64))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (s *FactorSet) UnmarshalJSON(data []byte) error {
	var m map[string]float64
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*s = FactorSet{}
	for i := Factor(0); i < factorCount; i++ {
		if v, ok := m[factorNames[i]]; ok {
			s.Set(i, v)
		}
	}
	return nil
}
