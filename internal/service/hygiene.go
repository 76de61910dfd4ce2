package service

import (
	"fmt"

	"github.com/DSafr2506/agent-for-chat-MAX/internal"
)

const (
	IssueHighMeetingRatio = "High share of meetings"
	IssueBackToBack       = "Back-to-back meetings without buffers"
	IssueLongMeetings     = "Meetings longer than 60 min"

	SuggestAsyncStatus   = "Merge status meetings; move some to async updates"
	SuggestBuffers       = "Add 5-10 min buffers between slots"
	SuggestShortMeetings = "Cut meetings to 25-45 min with an agenda"
	SuggestHygieneOK     = "Meeting hygiene is in good shape"
)

// MeetingHygiene flags meeting-heavy patterns and pairs each with a fixed
// suggestion.
func MeetingHygiene(s *internal.Snapshot, f internal.Features) internal.MeetingHygiene {
	h := internal.MeetingHygiene{Issues: []string{}, Suggestions: []string{}}

	longMeeting := false
	for _, m := range s.ItemsOfType(internal.ItemMeeting) {
		if minutesBetween(m.Start, m.End) > 60 {
			longMeeting = true
			break
		}
	}

	if f.MeetRatio >= 0.5 {
		h.Issues = append(h.Issues, IssueHighMeetingRatio)
		h.Suggestions = append(h.Suggestions, SuggestAsyncStatus)
	}
	if f.BackToBackCount >= 2 {
		h.Issues = append(h.Issues, IssueBackToBack)
		h.Suggestions = append(h.Suggestions, SuggestBuffers)
	}
	if longMeeting {
		h.Issues = append(h.Issues, IssueLongMeetings)
		h.Suggestions = append(h.Suggestions, SuggestShortMeetings)
	}
	if len(h.Suggestions) == 0 {
		h.Suggestions = append(h.Suggestions, SuggestHygieneOK)
	}
	return h
}

// CommTriage applies volume rules to the day's communications. The inbox
// summary is filled in later by the narrative layer.
func CommTriage(s *internal.Snapshot) internal.CommTriageAdvice {
	adv := internal.CommTriageAdvice{Actions: []string{}}
	c := s.Comms
	if c == nil {
		adv.Summary = "No communication data"
		return adv
	}
	if c.ChatMessages >= 120 {
		adv.Actions = append(adv.Actions, "Read chats in batches 2-3 times a day for 15-20 min")
	}
	if c.EmailThreads >= 15 {
		adv.Actions = append(adv.Actions, "Process email in one batch after a focus block (10-15 min)")
	}
	if c.CallsMinutes >= 90 {
		adv.Actions = append(adv.Actions, "Move some calls to async")
	}
	if len(adv.Actions) == 0 {
		adv.Actions = append(adv.Actions, "Communication load is within normal range")
	}
	adv.Summary = fmt.Sprintf("Chats: %d, email threads: %d, calls: %d min", c.ChatMessages, c.EmailThreads, c.CallsMinutes)
	return adv
}

// Wellbeing suggests daily habits from activity, sleep and risk. Unknown
// steps or sleep count as zero here, matching the conservative reading.
func Wellbeing(f internal.Features, risk internal.RiskResult) internal.WellbeingAdvice {
	var acts []string
	if f.Steps == nil || *f.Steps < 4000 {
		acts = append(acts, "Challenge: +3-5k steps (a 15-20 min walk)")
	}
	if f.SleepH == nil || *f.SleepH < 7 {
		acts = append(acts, "Target 7+ hours of sleep; start winding down 45 min before bed")
	}
	if risk.RiskScore >= 60 {
		acts = append(acts, "Breathing 4-7-8 two or three times a day and Pomodoro 55/5")
	}
	if len(acts) == 0 {
		acts = append(acts, "Keep the micro-breaks, water and a 15-min wind-down")
	}
	return internal.WellbeingAdvice{Actions: acts}
}
