// Package context selects the spans of an original document that are
// relevant to one modified chunk, under a size budget.
package context

import (
	"sort"
	"unicode/utf8"
)

// Span is one selected slice of the original document.
type Span struct {
	start     int
	end       int
	text      string
	score     float64
	truncated bool
}

// NewSpan creates a Span covering [start,end) bytes of the original text.
func NewSpan(start, end int, text string, score float64) Span {
	return Span{start: start, end: end, text: text, score: score}
}

// Start returns the byte offset where the span begins in the original.
func (s Span) Start() int { return s.start }

// End returns the byte offset one past the end of the span.
func (s Span) End() int { return s.end }

// Text returns the span text.
func (s Span) Text() string { return s.text }

// Score returns the relevance score used during selection. It is
// informational after selection and never rendered into a prompt.
func (s Span) Score() float64 { return s.score }

// Truncated reports whether the span was cut down to fit the context budget.
func (s Span) Truncated() bool { return s.truncated }

// Len returns the span length in runes.
func (s Span) Len() int { return utf8.RuneCountInString(s.text) }

// Window is the set of original-document spans selected for one modified
// chunk, ordered by document position.
type Window struct {
	spans []Span
}

// NewWindow creates a Window from spans, sorting them into document order.
func NewWindow(spans []Span) Window {
	sorted := make([]Span, len(spans))
	copy(sorted, spans)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].start < sorted[j].start })
	return Window{spans: sorted}
}

// Spans returns the selected spans in document order.
func (w Window) Spans() []Span {
	spans := make([]Span, len(w.spans))
	copy(spans, w.spans)
	return spans
}

// Empty reports whether no spans were selected.
func (w Window) Empty() bool { return len(w.spans) == 0 }

// Len returns the total size of all spans in runes.
func (w Window) Len() int {
	total := 0
	for _, s := range w.spans {
		total += s.Len()
	}
	return total
}

// Truncated reports whether any span had to be cut to fit the budget.
func (w Window) Truncated() bool {
	for _, s := range w.spans {
		if s.truncated {
			return true
		}
	}
	return false
}
