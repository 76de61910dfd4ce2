package service

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/DSafr2506/agent-for-chat-MAX/internal"
)

func at(h, m int) time.Time {
	return time.Date(2025, 3, 10, h, m, 0, 0, time.UTC)
}

func intp(v int) *int { return &v }

func floatp(v float64) *float64 { return &v }

func day(startH, endH int) internal.WorkDay {
	return internal.WorkDay{
		WorkStart:       at(startH, 0),
		WorkEnd:         at(endH, 0),
		MicrobreakEvery: 55,
		MicrobreakLen:   5,
		DayType:         "workday",
	}
}

func item(typ string, sh, sm, eh, em int) internal.ScheduleItem {
	return internal.ScheduleItem{Title: typ, Type: typ, Start: at(sh, sm), End: at(eh, em), Importance: "medium"}
}

func loadFixture(t *testing.T) *internal.Snapshot {
	t.Helper()
	data, err := os.ReadFile("testdata/snapshot.json")
	require.NoError(t, err)
	s, err := ParseSnapshot(data)
	require.NoError(t, err)
	return s
}
