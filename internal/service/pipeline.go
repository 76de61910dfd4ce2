package service

import (
	"time"

	"github.com/DSafr2506/agent-for-chat-MAX/internal"
)

// Analyze runs the deterministic pipeline over a validated snapshot. now is
// used only to place the hydration reminder and to stamp calendar events,
// so equal inputs produce equal reports.
func Analyze(s *internal.Snapshot, now time.Time) internal.Report {
	f := ExtractFeatures(s)
	risk := ScoreRisk(f, s.RecHistory)
	energy := EnergyCurve(s, f, DefaultEnergyStep)
	plan := ProposePlan(s, f, risk, energy, now)

	return internal.Report{
		Features:       f,
		Risk:           risk,
		EnergyCurve:    energy,
		Plan:           plan,
		MeetingHygiene: MeetingHygiene(s, f),
		Wellbeing:      Wellbeing(f, risk),
		CommTriage:     CommTriage(s),
		ICSCalendar:    ExportCalendar(plan, now),
	}
}
