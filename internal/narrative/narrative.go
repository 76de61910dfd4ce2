// Package narrative turns analysis results into coaching text through a
// remote text-generation port, substituting deterministic rule-based text
// whenever the port is unavailable or returns something unusable.
package narrative

import (
	"context"

	"github.com/DSafr2506/agent-for-chat-MAX/internal/retrieval"
)

// Completer generates text for a prompt. An empty result means the service
// is unavailable or failed.
type Completer interface {
	Complete(ctx context.Context, prompt string, maxTokens int) string
}

// Retriever ranks static advice passages by lexical overlap with query.
type Retriever interface {
	Retrieve(query string, topK int) []retrieval.Passage
}

// FallbackObserver is told whenever a fallback replaced generated text.
type FallbackObserver interface {
	ObserveFallback(kind string)
}

// Offline is a Completer that is never available.
type Offline struct{}

func (Offline) Complete(context.Context, string, int) string { return "" }

// Fallback kinds.
const (
	KindCoach      = "coach"
	KindEfficiency = "efficiency"
	KindFatigue    = "fatigue"
	KindInbox      = "inbox"
	KindRAG        = "rag"
)

// Writer bundles the ports used to produce narrative text.
type Writer struct {
	Completer Completer
	Retriever Retriever
	Observer  FallbackObserver
}

func NewWriter(c Completer, r Retriever, obs FallbackObserver) *Writer {
	if c == nil {
		c = Offline{}
	}
	return &Writer{Completer: c, Retriever: r, Observer: obs}
}

func (w *Writer) fallback(kind string) {
	if w.Observer != nil {
		w.Observer.ObserveFallback(kind)
	}
}
