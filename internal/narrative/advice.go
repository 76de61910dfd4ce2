package narrative

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/DSafr2506/agent-for-chat-MAX/internal"
)

// MaxInboxChars bounds the inbox text sent for summarization.
const MaxInboxChars = 4000

const ragTopK = 6

// InboxSummary condenses raw inbox samples. It returns "" when there is
// nothing to summarize or the service did not answer.
func (w *Writer) InboxSummary(ctx context.Context, samples []string) string {
	text := truncate(strings.TrimSpace(strings.Join(samples, "\n")), MaxInboxChars)
	if text == "" {
		return ""
	}
	prompt := "Summarize the following inbox messages in 2-3 sentences. " +
		"Name what needs a reply today.\n\n" + text
	out := w.Completer.Complete(ctx, prompt, 150)
	if out == "" {
		w.fallback(KindInbox)
	}
	return out
}

// RAGAdvice retrieves advice snippets relevant to the day and asks for
// personalized suggestions grounded on them. The retrieved snippets are
// returned as-is when no text was generated.
func (w *Writer) RAGAdvice(ctx context.Context, s *internal.Snapshot, f internal.Features, risk internal.RiskResult) *internal.RAGAdvice {
	if w.Retriever == nil {
		return nil
	}
	query := ragQuery(s, f, risk)
	passages := w.Retriever.Retrieve(query, ragTopK)

	advice := &internal.RAGAdvice{Suggestions: []string{}}
	for _, p := range passages {
		advice.Suggestions = append(advice.Suggestions, p.Text)
		advice.Sources = append(advice.Sources, p.Source)
	}
	if len(passages) == 0 {
		return advice
	}

	prompt := "You have context with ideas on balancing work and rest.\n" +
		"Write 5-7 concrete tips for the user based on their day and this context.\n\n" +
		"Day description:\n" + query + "\n\n" +
		"Context:\n" + strings.Join(advice.Suggestions, "\n\n") + "\n\n" +
		"Return only the list of tips, one per line, with no extra text."

	if lines := splitLines(w.Completer.Complete(ctx, prompt, 300)); len(lines) > 0 {
		advice.Suggestions = lines
		return advice
	}
	w.fallback(KindRAG)
	return advice
}

func ragQuery(s *internal.Snapshot, f internal.Features, risk internal.RiskResult) string {
	parts := []string{
		fmt.Sprintf("Work time: %dh %dmin", f.WorkMinutes/60, f.WorkMinutes%60),
		fmt.Sprintf("Meetings: %dmin (%.0f%% of the day)", f.MeetingMinutes, f.MeetRatio*100),
		fmt.Sprintf("Focus time: %dmin", f.DeepworkMinutes),
		fmt.Sprintf("Breaks: %dmin", f.BreakMinutes),
		fmt.Sprintf("Context switches: %d", f.ContextSwitches),
		fmt.Sprintf("Distractions: %dmin", f.DistractionsMinutes),
		fmt.Sprintf("Burnout risk: %.1f", risk.RiskScore),
	}
	if f.Steps != nil {
		parts = append(parts, fmt.Sprintf("Steps: %d", *f.Steps))
	}
	if f.SleepH != nil {
		parts = append(parts, fmt.Sprintf("Sleep: %.1fh", *f.SleepH))
	}
	if wb := lastWellbeing(s); wb != "" {
		parts = append(parts, "Wellbeing: "+wb)
	}
	return strings.Join(parts, ". ")
}

// splitLines turns a bulleted reply into one suggestion per line.
func splitLines(text string) []string {
	var out []string
	for _, ln := range strings.Split(text, "\n") {
		ln = strings.TrimSpace(strings.Trim(strings.TrimSpace(ln), "-• "))
		if ln != "" {
			out = append(out, ln)
		}
	}
	return out
}

// truncate cuts s to at most n characters without splitting a rune.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
