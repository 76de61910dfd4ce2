package internal

import "time"

// Schedule item types.
const (
	ItemMeeting  = "meeting"
	ItemFocus    = "focus"
	ItemBreak    = "break"
	ItemPersonal = "personal"
	ItemDeadline = "deadline"
	ItemOther    = "other"
)

// Chronotypes.
const (
	ChronoLark    = "lark"
	ChronoOwl     = "owl"
	ChronoNeutral = "neutral"
)

type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (i Interval) Duration() time.Duration { return i.End.Sub(i.Start) }

type WorkDay struct {
	WorkStart       time.Time  `json:"work_start"`
	WorkEnd         time.Time  `json:"work_end"`
	LunchStart      *time.Time `json:"lunch_start,omitempty"`
	LunchEnd        *time.Time `json:"lunch_end,omitempty"`
	MicrobreakEvery int        `json:"microbreak_minutes_every"`
	MicrobreakLen   int        `json:"microbreak_len"`
	DayType         string     `json:"day_type"`
}

type ScheduleItem struct {
	ID         string    `json:"id,omitempty"`
	Title      string    `json:"title"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Type       string    `json:"type"`
	Importance string    `json:"importance,omitempty"`
	Source     string    `json:"source,omitempty"`
}

func (it ScheduleItem) Interval() Interval { return Interval{Start: it.Start, End: it.End} }

// Biometrics holds wearable readings. A nil field means the reading is unknown.
type Biometrics struct {
	StepsTotal      *int     `json:"steps_total,omitempty"`
	ActivityMinutes *int     `json:"activity_minutes,omitempty"`
	SleepHours      *float64 `json:"sleep_hours,omitempty"`
	SleepQuality    *string  `json:"sleep_quality,omitempty"`
	AvgHR           *float64 `json:"avg_hr,omitempty"`
	HRVms           *float64 `json:"hrv_ms,omitempty"`
}

type SurveyEntry struct {
	TS           time.Time `json:"ts"`
	Stress       *int      `json:"stress_1_10,omitempty"`
	Mood         *int      `json:"mood_1_10,omitempty"`
	Fatigue      *int      `json:"fatigue_1_10,omitempty"`
	Satisfaction *int      `json:"satisfaction_1_10,omitempty"`
	Burnout      *int      `json:"burnout_1_10,omitempty"`
	Source       string    `json:"source,omitempty"`
}

type TaskBlock struct {
	Start              time.Time `json:"start"`
	End                time.Time `json:"end"`
	Kind               string    `json:"kind"`
	ContextSwitches    int       `json:"context_switches"`
	DistractionMinutes int       `json:"distractions_minutes"`
}

type Comms struct {
	CallsCount    int `json:"calls_count"`
	CallsMinutes  int `json:"calls_minutes"`
	MeetingsCount int `json:"meetings_count"`
	ChatMessages  int `json:"chat_msgs_count"`
	EmailThreads  int `json:"email_threads"`
}

type RecHistory struct {
	Accepted int `json:"accepted"`
	Ignored  int `json:"ignored"`
	Snoozed  int `json:"snoozed"`
}

// Total is the number of recorded recommendation outcomes.
func (r RecHistory) Total() int { return r.Accepted + r.Ignored + r.Snoozed }

type Persona struct {
	Chronotype      string     `json:"chronotype"`
	QuietHoursStart *time.Time `json:"quiet_hours_start,omitempty"`
	QuietHoursEnd   *time.Time `json:"quiet_hours_end,omitempty"`
	HardConstraints []string   `json:"hard_constraints,omitempty"`
}

// Snapshot is one user's validated workday. It is produced by the ingestion
// step and must be treated as read-only by every consumer.
type Snapshot struct {
	SchemaVersion string         `json:"schema_version"`
	UserID        string         `json:"user_id"`
	Date          string         `json:"date"`
	TZ            string         `json:"tz,omitempty"`
	Day           WorkDay        `json:"day"`
	Schedule      []ScheduleItem `json:"schedule"`
	Biometrics    *Biometrics    `json:"biometrics,omitempty"`
	Surveys       []SurveyEntry  `json:"surveys"`
	Tasks         []TaskBlock    `json:"tasks"`
	Comms         *Comms         `json:"comms,omitempty"`
	RecHistory    *RecHistory    `json:"rec_history,omitempty"`
	Persona       *Persona       `json:"persona,omitempty"`
	InboxSamples  []string       `json:"inbox_samples,omitempty"`
}

// Chronotype falls back to neutral when no persona was supplied.
func (s *Snapshot) Chronotype() string {
	if s.Persona == nil || s.Persona.Chronotype == "" {
		return ChronoNeutral
	}
	return s.Persona.Chronotype
}

// ItemsOfType returns schedule items of one type in input order.
func (s *Snapshot) ItemsOfType(typ string) []ScheduleItem {
	var out []ScheduleItem
	for _, it := range s.Schedule {
		if it.Type == typ {
			out = append(out, it)
		}
	}
	return out
}
