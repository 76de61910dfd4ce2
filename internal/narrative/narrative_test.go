package narrative

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DSafr2506/agent-for-chat-MAX/internal"
	"github.com/DSafr2506/agent-for-chat-MAX/internal/retrieval"
)

type stubCompleter struct {
	reply   string
	prompts []string
}

func (s *stubCompleter) Complete(_ context.Context, prompt string, _ int) string {
	s.prompts = append(s.prompts, prompt)
	return s.reply
}

type countingObserver map[string]int

func (c countingObserver) ObserveFallback(kind string) { c[kind]++ }

func intp(v int) *int { return &v }

func floatp(v float64) *float64 { return &v }

func TestCoachUsesGeneratedText(t *testing.T) {
	obs := countingObserver{}
	w := NewWriter(&stubCompleter{reply: "Take a walk."}, nil, obs)
	out := w.Coach(context.Background(), internal.RiskResult{RiskScore: 80}, internal.Features{})
	assert.Equal(t, "Take a walk.", out)
	assert.Empty(t, obs)
}

func TestCoachFallback(t *testing.T) {
	obs := countingObserver{}
	w := NewWriter(nil, nil, obs)

	f := internal.Features{Steps: intp(1200), LongestStretchNoBreak: 150, MeetRatio: 0.6}
	out := w.Coach(context.Background(), internal.RiskResult{RiskScore: 75}, f)
	assert.True(t, strings.HasPrefix(out, "Plan: "))
	assert.Contains(t, out, "4-7-8 breathing")
	assert.Contains(t, out, "walk")
	assert.Contains(t, out, "every 55-70 min")
	assert.Contains(t, out, "group meetings")
	assert.Equal(t, 1, obs[KindCoach])

	calm := CoachFallback(internal.RiskResult{RiskScore: 10}, internal.Features{Steps: intp(9000)})
	assert.Equal(t, "Plan: scheduled breaks, water, a 15-min wind-down.", calm)
}

func TestEfficiencyFallback(t *testing.T) {
	w := NewWriter(Offline{}, nil, nil)
	rec := w.Efficiency(context.Background(), &internal.Snapshot{}, internal.Features{})
	assert.Equal(t, efficiencyUnavailable, rec.Recommendations)
	assert.Equal(t, noDayData, rec.DaySummary)
}

func TestFatigueLoadParsesJSON(t *testing.T) {
	c := &stubCompleter{reply: "Sure:\n```json\n{\"fatigue_score\": 120, \"load_score\": 55, \"level\": \"HIGH\", \"explanation\": \" long day \"}\n```"}
	w := NewWriter(c, nil, nil)
	a := w.FatigueLoad(context.Background(), &internal.Snapshot{}, internal.Features{})
	assert.Equal(t, 100.0, a.FatigueScore)
	assert.Equal(t, 55.0, a.LoadScore)
	assert.Equal(t, internal.LevelHigh, a.Level)
	assert.Equal(t, "long day", a.Explanation)
}

func TestFatigueLoadFallback(t *testing.T) {
	for _, reply := range []string{"", "not json", "{broken"} {
		obs := countingObserver{}
		w := NewWriter(&stubCompleter{reply: reply}, nil, obs)
		a := w.FatigueLoad(context.Background(), &internal.Snapshot{}, internal.Features{})
		assert.Equal(t, internal.LevelLow, a.Level, reply)
		assert.Zero(t, a.FatigueScore)
		assert.Zero(t, a.LoadScore)
		assert.NotEmpty(t, a.Explanation)
		assert.Equal(t, 1, obs[KindFatigue])
	}

	a, ok := parseFatigue(`{"fatigue_score": 30, "level": "extreme"}`)
	require.True(t, ok)
	assert.Equal(t, internal.LevelLow, a.Level)
}

func TestInboxSummaryTruncates(t *testing.T) {
	c := &stubCompleter{reply: "Reply to Bob."}
	w := NewWriter(c, nil, nil)
	assert.Equal(t, "", w.InboxSummary(context.Background(), nil))
	assert.Empty(t, c.prompts)

	long := strings.Repeat("я", MaxInboxChars+100)
	assert.Equal(t, "Reply to Bob.", w.InboxSummary(context.Background(), []string{long}))
	require.Len(t, c.prompts, 1)
	assert.Equal(t, MaxInboxChars, strings.Count(c.prompts[0], "я"))
}

func TestRAGAdvice(t *testing.T) {
	idx := retrieval.NewIndex([]retrieval.Passage{
		{Text: "Take a walk between meetings", Source: "walk.md"},
		{Text: "Unrelated gardening note", Source: "garden.md"},
	})
	f := internal.Features{MeetingMinutes: 200, SleepH: floatp(6)}

	obs := countingObserver{}
	w := NewWriter(Offline{}, idx, obs)
	adv := w.RAGAdvice(context.Background(), &internal.Snapshot{}, f, internal.RiskResult{})
	require.NotNil(t, adv)
	assert.Equal(t, []string{"Take a walk between meetings"}, adv.Suggestions)
	assert.Equal(t, []string{"walk.md"}, adv.Sources)
	assert.Equal(t, 1, obs[KindRAG])

	w = NewWriter(&stubCompleter{reply: "- Walk after lunch\n\n• Drink water\n"}, idx, nil)
	adv = w.RAGAdvice(context.Background(), &internal.Snapshot{}, f, internal.RiskResult{})
	assert.Equal(t, []string{"Walk after lunch", "Drink water"}, adv.Suggestions)
	assert.Equal(t, []string{"walk.md"}, adv.Sources)

	assert.Nil(t, NewWriter(nil, nil, nil).RAGAdvice(context.Background(), &internal.Snapshot{}, f, internal.RiskResult{}))
}

func TestDaySummary(t *testing.T) {
	s := &internal.Snapshot{
		Schedule: []internal.ScheduleItem{
			{Type: internal.ItemMeeting, Title: "Standup"},
			{Type: internal.ItemFocus, Title: "Coding"},
		},
		Biometrics: &internal.Biometrics{StepsTotal: intp(4000)},
		Surveys:    []internal.SurveyEntry{{Stress: intp(7)}},
	}
	out := DaySummary(s)
	assert.Contains(t, out, "Meetings: 1, focus blocks: 1")
	assert.Contains(t, out, "Meeting titles: Standup")
	assert.Contains(t, out, "Steps: 4000")
	assert.Contains(t, out, "Self-report: stress 7/10")
}
