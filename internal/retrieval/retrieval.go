// Package retrieval ranks static advice snippets by lexical similarity to a
// query.
package retrieval

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

const builtinSource = "builtin"

const builtinAdvice = `Ideas to break up the workday:
- A short 10-15 minute walk between focus blocks.
- 5 minutes of stretching or neck and back exercises.
- A screen-free break: tea, water, a few deep breaths.
- A mini planning session: write down three priorities for the rest of the day.
- A small creative activity: a sketch, a few pages of a book.
Weekday balance:
- Schedule at least one enjoyable personal activity in the middle of the day.
- Set aside a notification-free window for deep work.
- In the evening, review the day and pick one micro-step for tomorrow.`

type Passage struct {
	Text   string `json:"text"`
	Source string `json:"source"`
}

type chunk struct {
	Passage
	terms map[string]int
	norm  float64
}

// Index is an immutable, in-memory snippet corpus. It is safe for
// concurrent use.
type Index struct {
	chunks []chunk
}

// NewIndex builds an index from passages, dropping ones without terms.
func NewIndex(passages []Passage) *Index {
	idx := &Index{}
	for _, p := range passages {
		terms := termCounts(p.Text)
		if len(terms) == 0 {
			continue
		}
		idx.chunks = append(idx.chunks, chunk{Passage: p, terms: terms, norm: norm(terms)})
	}
	return idx
}

// Builtin returns an index over the built-in advice text.
func Builtin() *Index {
	return NewIndex([]Passage{{Text: builtinAdvice, Source: builtinSource}})
}

// LoadDir reads every .md and .txt file in dir and splits it into
// blank-line separated passages. Unreadable files are skipped. An empty or
// missing directory yields the builtin index.
func LoadDir(dir string) (*Index, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Builtin(), nil
		}
		return nil, fmt.Errorf("retrieval: read dir: %w", err)
	}
	var passages []Passage
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !(strings.HasSuffix(name, ".md") || strings.HasSuffix(name, ".txt")) {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			continue
		}
		for _, block := range strings.Split(string(data), "\n\n") {
			if block = strings.TrimSpace(block); block != "" {
				passages = append(passages, Passage{Text: block, Source: name})
			}
		}
	}
	idx := NewIndex(passages)
	if idx.Len() == 0 {
		return Builtin(), nil
	}
	return idx, nil
}

type knowledgeFile struct {
	Snippets []struct {
		Text   string `yaml:"text"`
		Source string `yaml:"source"`
	} `yaml:"snippets"`
}

// LoadYAML reads a knowledge base of the form
//
//	snippets:
//	  - text: "..."
//	    source: "..."
func LoadYAML(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("retrieval: read %s: %w", path, err)
	}
	var kf knowledgeFile
	if err := yaml.Unmarshal(data, &kf); err != nil {
		return nil, fmt.Errorf("retrieval: parse %s: %w", path, err)
	}
	passages := make([]Passage, 0, len(kf.Snippets))
	for _, s := range kf.Snippets {
		src := s.Source
		if src == "" {
			src = filepath.Base(path)
		}
		passages = append(passages, Passage{Text: strings.TrimSpace(s.Text), Source: src})
	}
	idx := NewIndex(passages)
	if idx.Len() == 0 {
		return Builtin(), nil
	}
	return idx, nil
}

func (idx *Index) Len() int { return len(idx.chunks) }

// Retrieve returns up to topK passages with positive cosine similarity to
// query, best first. Ties keep corpus order.
func (idx *Index) Retrieve(query string, topK int) []Passage {
	if idx == nil || topK <= 0 {
		return nil
	}
	q := termCounts(query)
	if len(q) == 0 {
		return nil
	}
	qn := norm(q)

	type scored struct {
		score float64
		pos   int
	}
	var hits []scored
	for i, c := range idx.chunks {
		dot := 0
		for t, n := range q {
			dot += n * c.terms[t]
		}
		if dot == 0 {
			continue
		}
		hits = append(hits, scored{score: float64(dot) / (qn * c.norm), pos: i})
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })
	if len(hits) > topK {
		hits = hits[:topK]
	}
	out := make([]Passage, 0, len(hits))
	for _, h := range hits {
		out = append(out, idx.chunks[h.pos].Passage)
	}
	return out
}

func termCounts(text string) map[string]int {
	out := map[string]int{}
	for _, w := range strings.Fields(text) {
		w = strings.ToLower(strings.TrimFunc(w, func(r rune) bool {
			return unicode.IsPunct(r) || unicode.IsSymbol(r)
		}))
		if w != "" {
			out[w]++
		}
	}
	return out
}

func norm(terms map[string]int) float64 {
	sum := 0
	for _, n := range terms {
		sum += n * n
	}
	return math.Sqrt(float64(sum))
}
