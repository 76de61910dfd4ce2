package internal

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactorSetJSON(t *testing.T) {
	var s FactorSet
	s.Set(FactorLowAdherence, 1)
	s.Set(FactorSleepDebt, 0.3)
	s.Set(FactorOvertime, 0)

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Equal(t, `{"sleep_debt":0.3,"overtime":0,"low_adherence":1}`, string(data))

	var back FactorSet
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, s, back)
	assert.Equal(t, 3, back.Len())
	assert.Equal(t, map[string]float64{"sleep_debt": 0.3, "overtime": 0, "low_adherence": 1}, back.Map())
}

func TestFactorSetWeightedScore(t *testing.T) {
	var s FactorSet
	score, weight := s.WeightedScore()
	assert.Zero(t, score)
	assert.Zero(t, weight)

	s.Set(FactorSleepDebt, 0.5)
	s.Set(FactorLowHRV, 1)
	score, weight = s.WeightedScore()
	assert.Equal(t, 0.5*16+4.0, score)
	assert.Equal(t, 20.0, weight)
}

func TestFactorNames(t *testing.T) {
	assert.Len(t, Factors(), 14)
	assert.Equal(t, "back_to_back", FactorBackToBack.String())
	assert.Equal(t, 10.0, FactorBurnoutSelf.Weight())
	assert.Equal(t, "factor(99)", Factor(99).String())
	assert.Zero(t, Factor(-1).Weight())
}

func TestParseTimestamp(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*3600)
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2025-03-10T09:00:00Z", time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)},
		{"2025-03-10T09:00:00+03:00", time.Date(2025, 3, 10, 6, 0, 0, 0, time.UTC)},
		{"2025-03-10T09:00:00", time.Date(2025, 3, 10, 9, 0, 0, 0, loc)},
		{"2025-03-10 09:30", time.Date(2025, 3, 10, 9, 30, 0, 0, loc)},
		{"2025-03-10T09:00:00.250", time.Date(2025, 3, 10, 9, 0, 0, 250e6, loc)},
	}
	for _, tt := range tests {
		got, err := ParseTimestamp(tt.in, loc)
		require.NoError(t, err, tt.in)
		assert.True(t, tt.want.Equal(got), "%s: got %s", tt.in, got)
	}

	for _, bad := range []string{"", "tomorrow", "2025-13-01T00:00:00", "10/03/2025"} {
		_, err := ParseTimestamp(bad, nil)
		assert.Error(t, err, bad)
	}
}

func TestValidationError(t *testing.T) {
	err := error(&ValidationError{Fields: []FieldError{{Field: "date", Rule: "required"}, {Field: "tz", Rule: "tzname"}}})
	assert.Equal(t, "invalid snapshot: date: required; tz: tzname", err.Error())
	verr, ok := AsValidation(err)
	require.True(t, ok)
	assert.Len(t, verr.Fields, 2)

	_, ok = AsValidation(NewAppError(500, "boom"))
	assert.False(t, ok)
}

func TestSnapshotHelpers(t *testing.T) {
	s := &Snapshot{Schedule: []ScheduleItem{{Type: ItemMeeting, Title: "a"}, {Type: ItemFocus}, {Type: ItemMeeting, Title: "b"}}}
	assert.Equal(t, ChronoNeutral, s.Chronotype())
	meetings := s.ItemsOfType(ItemMeeting)
	require.Len(t, meetings, 2)
	assert.Equal(t, "b", meetings[1].Title)
	assert.Equal(t, 6, RecHistory{Accepted: 1, Ignored: 2, Snoozed: 3}.Total())
}
