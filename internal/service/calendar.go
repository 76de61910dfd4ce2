package service

import (
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"github.com/DSafr2506/agent-for-chat-MAX/internal"
)

const calendarProductID = "-//agent-for-chat-MAX//workload plan//EN"

// calendarNamespace seeds deterministic event UIDs.
var calendarNamespace = uuid.MustParse("5b2c7e8a-3f0d-4c51-9a57-0e6f4f1d2b90")

var exportableKinds = map[string]bool{
	internal.PlanMicrobreak: true,
	internal.PlanWalk:       true,
	internal.PlanBreathing:  true,
	internal.PlanFocus:      true,
	internal.PlanWinddown:   true,
	internal.PlanHydrate:    true,
}

// ExportCalendar renders exportable plan items as an iCalendar document.
// stamp becomes every event's DTSTAMP so identical input renders identical
// text.
func ExportCalendar(items []internal.PlanItem, stamp time.Time) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(calendarProductID)
	for _, it := range items {
		if !exportableKinds[it.Kind] {
			continue
		}
		ev := cal.AddEvent(eventUID(it))
		ev.SetDtStampTime(stamp)
		ev.SetStartAt(it.Start)
		ev.SetEndAt(it.End)
		ev.SetSummary(it.Title)
		ev.SetDescription(it.Reason)
	}
	return cal.Serialize()
}

func eventUID(it internal.PlanItem) string {
	key := it.Kind + "|" + it.Start.UTC().Format(time.RFC3339) + "|" + it.End.UTC().Format(time.RFC3339)
	return uuid.NewSHA1(calendarNamespace, []byte(key)).String()
}
