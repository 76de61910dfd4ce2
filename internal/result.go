package internal

import "time"

// Plan item kinds.
const (
	PlanMicrobreak      = "microbreak"
	PlanWalk            = "walk"
	PlanBreathing       = "breathing"
	PlanFocus           = "focus"
	PlanRescheduleHint  = "reschedule_hint"
	PlanWinddown        = "winddown"
	PlanHydrate         = "hydrate"
	PlanNoNotifications = "no_notifications"
)

// Features are the derived workload aggregates of one Snapshot. Pointer
// fields are nil when the underlying signal was not measured.
type Features struct {
	WorkMinutes           int      `json:"work_minutes"`
	MeetingMinutes        int      `json:"meeting_minutes"`
	MeetingsCount         int      `json:"meetings_count"`
	DeepworkMinutes       int      `json:"deepwork_minutes"`
	BreakMinutes          int      `json:"break_minutes"`
	BackToBackCount       int      `json:"back_to_back_count"`
	LongestStretchNoBreak int      `json:"longest_stretch_no_break_min"`
	ContextSwitches       int      `json:"context_switches"`
	DistractionsMinutes   int      `json:"distractions_minutes"`
	Steps                 *int     `json:"steps"`
	SleepH                *float64 `json:"sleep_h"`
	SleepQualityScore     *float64 `json:"sleep_quality_score"`
	AvgHR                 *float64 `json:"avg_hr"`
	HRVms                 *float64 `json:"hrv_ms"`
	StressSelf            *float64 `json:"stress_self"`
	FatigueSelf           *float64 `json:"fatigue_self"`
	SatisfactionSelf      *float64 `json:"satisfaction_self"`
	BurnoutSelf           *float64 `json:"burnout_self"`
	CallsMinutes          int      `json:"calls_minutes"`
	ChatsCount            int      `json:"chats_count"`
	MeetRatio             float64  `json:"meet_ratio"`
}

type RiskResult struct {
	RiskScore float64   `json:"risk_score"`
	Factors   FactorSet `json:"factors"`
	Notes     []string  `json:"notes"`
}

type EnergyPoint struct {
	TS     time.Time `json:"ts"`
	Energy float64   `json:"energy"`
}

type PlanItem struct {
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Kind   string    `json:"kind"`
	Title  string    `json:"title"`
	Reason string    `json:"reason"`
}

type MeetingHygiene struct {
	Issues      []string `json:"issues"`
	Suggestions []string `json:"suggestions"`
}

type CommTriageAdvice struct {
	Summary      string   `json:"summary"`
	Actions      []string `json:"actions"`
	InboxSummary string   `json:"inbox_summary,omitempty"`
}

type WellbeingAdvice struct {
	Actions []string `json:"actions"`
}

type EfficiencyRecommendations struct {
	Recommendations string `json:"recommendations"`
	DaySummary      string `json:"day_summary,omitempty"`
}

type RAGAdvice struct {
	Suggestions []string `json:"suggestions"`
	Sources     []string `json:"sources,omitempty"`
}

// Fatigue levels reported by the load assessment.
const (
	LevelLow    = "low"
	LevelMedium = "medium"
	LevelHigh   = "high"
)

type FatigueLoadAssessment struct {
	FatigueScore float64 `json:"fatigue_score"`
	LoadScore    float64 `json:"load_score"`
	Level        string  `json:"level"`
	Explanation  string  `json:"explanation"`
}

// Report is the deterministic part of an analysis.
type Report struct {
	Features       Features         `json:"features"`
	Risk           RiskResult       `json:"risk"`
	EnergyCurve    []EnergyPoint    `json:"energy_curve"`
	Plan           []PlanItem       `json:"plan"`
	MeetingHygiene MeetingHygiene   `json:"meeting_hygiene"`
	Wellbeing      WellbeingAdvice  `json:"wellbeing"`
	CommTriage     CommTriageAdvice `json:"comm_triage"`
	ICSCalendar    string           `json:"ics_calendar"`
}

// Output is a Report merged with narrative text from the remote collaborators
// or their fallbacks.
type Output struct {
	Report
	CoachMessage              string                    `json:"coach_message"`
	EfficiencyRecommendations EfficiencyRecommendations `json:"efficiency_recommendations"`
	RAGAdvice                 *RAGAdvice                `json:"rag_advice,omitempty"`
	FatigueLoad               *FatigueLoadAssessment    `json:"fatigue_load,omitempty"`
}
