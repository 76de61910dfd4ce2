package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/DSafr2506/agent-for-chat-MAX/internal"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("isotime", func(fl validator.FieldLevel) bool {
		_, err := internal.ParseTimestamp(fl.Field().String(), time.UTC)
		return err == nil
	})
	_ = v.RegisterValidation("tzname", func(fl validator.FieldLevel) bool {
		_, err := time.LoadLocation(fl.Field().String())
		return err == nil
	})
	v.RegisterTagNameFunc(jsonFieldName)
	return v
}

type WorkDayRequest struct {
	WorkStart       string  `json:"work_start" validate:"required,isotime"`
	WorkEnd         string  `json:"work_end" validate:"required,isotime"`
	LunchStart      *string `json:"lunch_start" validate:"omitempty,isotime"`
	LunchEnd        *string `json:"lunch_end" validate:"omitempty,isotime"`
	MicrobreakEvery *int    `json:"microbreak_minutes_every" validate:"omitempty,gte=1"`
	MicrobreakLen   *int    `json:"microbreak_len" validate:"omitempty,gte=1"`
	DayType         string  `json:"day_type" validate:"omitempty,oneof=workday vacation sick weekend"`
}

type ScheduleItemRequest struct {
	ID         string `json:"id"`
	Title      string `json:"title" validate:"required"`
	Start      string `json:"start" validate:"required,isotime"`
	End        string `json:"end" validate:"required,isotime"`
	Type       string `json:"type" validate:"omitempty,oneof=meeting focus break personal deadline other"`
	Importance string `json:"importance" validate:"omitempty,oneof=low medium high"`
	Source     string `json:"source"`
}

type StepsRequest struct {
	Total *int `json:"total" validate:"omitempty,gte=0"`
}

type SleepRequest struct {
	DurationHours *float64 `json:"duration_hours" validate:"omitempty,gte=0,lte=24"`
	Quality       *string  `json:"quality"`
}

type HeartRequest struct {
	AvgBPM *float64 `json:"avg_bpm" validate:"omitempty,gt=0"`
	HRVms  *float64 `json:"hrv_ms" validate:"omitempty,gte=0"`
}

type BiometricsRequest struct {
	Steps           *StepsRequest `json:"steps"`
	ActivityMinutes *int          `json:"activity_minutes" validate:"omitempty,gte=0"`
	Sleep           *SleepRequest `json:"sleep"`
	Heart           *HeartRequest `json:"heart"`
}

type SurveyEntryRequest struct {
	TS           string `json:"ts" validate:"required,isotime"`
	Stress       *int   `json:"stress_1_10" validate:"omitempty,min=1,max=10"`
	Mood         *int   `json:"mood_1_10" validate:"omitempty,min=1,max=10"`
	Fatigue      *int   `json:"fatigue_1_10" validate:"omitempty,min=1,max=10"`
	Satisfaction *int   `json:"satisfaction_1_10" validate:"omitempty,min=1,max=10"`
	Burnout      *int   `json:"burnout_1_10" validate:"omitempty,min=1,max=10"`
	Source       string `json:"source"`
}

type TaskBlockRequest struct {
	Start              string `json:"start" validate:"required,isotime"`
	End                string `json:"end" validate:"required,isotime"`
	Kind               string `json:"kind" validate:"required,oneof=focus routine creative comms"`
	ContextSwitches    *int   `json:"context_switches" validate:"omitempty,gte=0"`
	DistractionMinutes *int   `json:"distractions_minutes" validate:"omitempty,gte=0"`
}

type CommsRequest struct {
	CallsCount    int `json:"calls_count" validate:"gte=0"`
	CallsMinutes  int `json:"calls_minutes" validate:"gte=0"`
	MeetingsCount int `json:"meetings_count" validate:"gte=0"`
	ChatMessages  int `json:"chat_msgs_count" validate:"gte=0"`
	EmailThreads  int `json:"email_threads" validate:"gte=0"`
}

type RecHistoryRequest struct {
	Accepted int `json:"accepted" validate:"gte=0"`
	Ignored  int `json:"ignored" validate:"gte=0"`
	Snoozed  int `json:"snoozed" validate:"gte=0"`
}

type PersonaRequest struct {
	Chronotype      *string  `json:"chronotype" validate:"omitempty,oneof=lark owl neutral"`
	QuietHoursStart *string  `json:"quiet_hours_start" validate:"omitempty,isotime"`
	QuietHoursEnd   *string  `json:"quiet_hours_end" validate:"omitempty,isotime"`
	HardConstraints []string `json:"hard_constraints"`
}

// SnapshotRequest is the wire shape of a snapshot before validation.
type SnapshotRequest struct {
	SchemaVersion string                `json:"schema_version"`
	UserID        string                `json:"user_id" validate:"required"`
	Date          string                `json:"date" validate:"required,datetime=2006-01-02"`
	TZ            string                `json:"tz" validate:"omitempty,tzname"`
	Day           WorkDayRequest        `json:"day"`
	Schedule      []ScheduleItemRequest `json:"schedule" validate:"dive"`
	Biometrics    *BiometricsRequest    `json:"biometrics"`
	Surveys       []SurveyEntryRequest  `json:"surveys" validate:"dive"`
	Tasks         []TaskBlockRequest    `json:"tasks" validate:"dive"`
	Comms         *CommsRequest         `json:"comms"`
	RecHistory    *RecHistoryRequest    `json:"rec_history"`
	Persona       *PersonaRequest       `json:"persona"`
	InboxSamples  []string              `json:"inbox_samples"`
}

// ParseSnapshot decodes, validates and builds a Snapshot from JSON. Any
// problem rejects the whole payload.
func ParseSnapshot(payload []byte) (*internal.Snapshot, error) {
	var req SnapshotRequest
	dec := json.NewDecoder(bytes.NewReader(payload))
	if err := dec.Decode(&req); err != nil {
		return nil, &internal.ValidationError{Fields: []internal.FieldError{{Field: "$", Rule: "json", Value: err.Error()}}}
	}
	return BuildSnapshot(&req)
}

func ValidateSnapshotRequest(req *SnapshotRequest) error {
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			out := make([]internal.FieldError, 0, len(verrs))
			for _, fe := range verrs {
				out = append(out, internal.FieldError{
					Field: trimRoot(fe.Namespace()),
					Rule:  ruleName(fe),
					Value: fmt.Sprint(fe.Value()),
				})
			}
			return &internal.ValidationError{Fields: out}
		}
		return err
	}
	return nil
}

// BuildSnapshot validates req and converts it into the immutable domain form.
func BuildSnapshot(req *SnapshotRequest) (*internal.Snapshot, error) {
	if err := ValidateSnapshotRequest(req); err != nil {
		return nil, err
	}

	loc := time.UTC
	if req.TZ != "" {
		loc, _ = time.LoadLocation(req.TZ)
	}
	p := &tsParser{loc: loc}

	s := &internal.Snapshot{
		SchemaVersion: req.SchemaVersion,
		UserID:        req.UserID,
		Date:          req.Date,
		TZ:            req.TZ,
	}
	if s.SchemaVersion == "" {
		s.SchemaVersion = "1.0"
	}

	s.Day = internal.WorkDay{
		WorkStart:       p.must("day.work_start", req.Day.WorkStart),
		WorkEnd:         p.must("day.work_end", req.Day.WorkEnd),
		LunchStart:      p.opt("day.lunch_start", req.Day.LunchStart),
		LunchEnd:        p.opt("day.lunch_end", req.Day.LunchEnd),
		MicrobreakEvery: intOr(req.Day.MicrobreakEvery, 55),
		MicrobreakLen:   intOr(req.Day.MicrobreakLen, 5),
		DayType:         stringOr(req.Day.DayType, "workday"),
	}

	for i, it := range req.Schedule {
		prefix := fmt.Sprintf("schedule[%d]", i)
		s.Schedule = append(s.Schedule, internal.ScheduleItem{
			ID:         it.ID,
			Title:      it.Title,
			Start:      p.must(prefix+".start", it.Start),
			End:        p.must(prefix+".end", it.End),
			Type:       stringOr(it.Type, internal.ItemOther),
			Importance: stringOr(it.Importance, "medium"),
			Source:     it.Source,
		})
	}

	if b := req.Biometrics; b != nil {
		bio := &internal.Biometrics{ActivityMinutes: b.ActivityMinutes}
		if b.Steps != nil {
			bio.StepsTotal = b.Steps.Total
		}
		if b.Sleep != nil {
			bio.SleepHours = b.Sleep.DurationHours
			bio.SleepQuality = b.Sleep.Quality
		}
		if b.Heart != nil {
			bio.AvgHR = b.Heart.AvgBPM
			bio.HRVms = b.Heart.HRVms
		}
		s.Biometrics = bio
	}

	for i, e := range req.Surveys {
		s.Surveys = append(s.Surveys, internal.SurveyEntry{
			TS:           p.must(fmt.Sprintf("surveys[%d].ts", i), e.TS),
			Stress:       e.Stress,
			Mood:         e.Mood,
			Fatigue:      e.Fatigue,
			Satisfaction: e.Satisfaction,
			Burnout:      e.Burnout,
			Source:       e.Source,
		})
	}

	for i, t := range req.Tasks {
		prefix := fmt.Sprintf("tasks[%d]", i)
		s.Tasks = append(s.Tasks, internal.TaskBlock{
			Start:              p.must(prefix+".start", t.Start),
			End:                p.must(prefix+".end", t.End),
			Kind:               t.Kind,
			ContextSwitches:    intOr(t.ContextSwitches, 0),
			DistractionMinutes: intOr(t.DistractionMinutes, 0),
		})
	}

	if c := req.Comms; c != nil {
		s.Comms = &internal.Comms{
			CallsCount:    c.CallsCount,
			CallsMinutes:  c.CallsMinutes,
			MeetingsCount: c.MeetingsCount,
			ChatMessages:  c.ChatMessages,
			EmailThreads:  c.EmailThreads,
		}
	}
	if r := req.RecHistory; r != nil {
		s.RecHistory = &internal.RecHistory{Accepted: r.Accepted, Ignored: r.Ignored, Snoozed: r.Snoozed}
	}
	if pr := req.Persona; pr != nil {
		chrono := internal.ChronoNeutral
		if pr.Chronotype != nil {
			chrono = *pr.Chronotype
		}
		s.Persona = &internal.Persona{
			Chronotype:      chrono,
			QuietHoursStart: p.opt("persona.quiet_hours_start", pr.QuietHoursStart),
			QuietHoursEnd:   p.opt("persona.quiet_hours_end", pr.QuietHoursEnd),
			HardConstraints: append([]string(nil), pr.HardConstraints...),
		}
	}
	s.InboxSamples = append([]string(nil), req.InboxSamples...)

	if len(p.errs) > 0 {
		return nil, &internal.ValidationError{Fields: p.errs}
	}
	if errs := checkIntervals(s); len(errs) > 0 {
		return nil, &internal.ValidationError{Fields: errs}
	}
	return s, nil
}

type intervalRule struct {
	field string
	start time.Time
	end   time.Time
}

// checkIntervals enforces start < end on every interval of the snapshot.
func checkIntervals(s *internal.Snapshot) []internal.FieldError {
	rules := []intervalRule{{field: "day.work_start", start: s.Day.WorkStart, end: s.Day.WorkEnd}}
	if s.Day.LunchStart != nil && s.Day.LunchEnd != nil {
		rules = append(rules, intervalRule{field: "day.lunch_start", start: *s.Day.LunchStart, end: *s.Day.LunchEnd})
	}
	for i, it := range s.Schedule {
		rules = append(rules, intervalRule{field: fmt.Sprintf("schedule[%d].start", i), start: it.Start, end: it.End})
	}
	for i, t := range s.Tasks {
		rules = append(rules, intervalRule{field: fmt.Sprintf("tasks[%d].start", i), start: t.Start, end: t.End})
	}

	var errs []internal.FieldError
	for _, r := range rules {
		if !r.start.Before(r.end) {
			errs = append(errs, internal.FieldError{Field: r.field, Rule: "start_before_end"})
		}
	}
	return errs
}

type tsParser struct {
	loc  *time.Location
	errs []internal.FieldError
}

func (p *tsParser) must(field, v string) time.Time {
	t, err := internal.ParseTimestamp(v, p.loc)
	if err != nil {
		p.errs = append(p.errs, internal.FieldError{Field: field, Rule: "isotime", Value: v})
	}
	return t
}

func (p *tsParser) opt(field string, v *string) *time.Time {
	if v == nil || *v == "" {
		return nil
	}
	t := p.must(field, *v)
	return &t
}

func intOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}

func stringOr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
