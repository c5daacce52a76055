package context

import (
	"fmt"
	"sort"

	"github.com/diffdochq/diffdoc/domain/chunk"
)

// DefaultMaxSize is the default context budget in runes, matching the
// size the analysis prompt was tuned with.
const DefaultMaxSize = 5000

// Extractor selects the spans of an original document most relevant to a
// modified chunk. Candidates are produced by splitting the original at the
// same granularity as the modified text, so candidate and chunk are
// comparable in size.
type Extractor struct {
	granularity int
	scorer      *scorer
}

// NewExtractor creates an Extractor whose candidate spans are at most
// granularity runes long (typically the pipeline's max chunk size).
func NewExtractor(granularity int) (*Extractor, error) {
	if granularity <= 0 {
		return nil, fmt.Errorf("context: granularity must be positive, got %d", granularity)
	}
	return &Extractor{granularity: granularity, scorer: newScorer()}, nil
}

// Extract returns the spans of original most relevant to modified, keeping
// the total selected size within maxSize runes.
//
// Candidates are ranked by score descending, ties broken by earlier
// document position. Selection is greedy and stops at the first span that
// would overflow the budget; spans are never cut mid-selection, except
// that a top-ranked span larger than the whole budget is truncated to the
// budget (anchored at its start) and flagged, so a huge original still
// contributes its best region. An empty original yields an empty window:
// chunk-only analysis is a valid degraded mode, not an error.
func (e *Extractor) Extract(original string, modified chunk.Chunk, maxSize int) (Window, error) {
	if maxSize <= 0 {
		return Window{}, fmt.Errorf("context: max size must be positive, got %d", maxSize)
	}
	if original == "" {
		return Window{}, nil
	}

	candidates, err := chunk.Split(original, chunk.Params{MaxSize: e.granularity, Overlap: 0})
	if err != nil {
		return Window{}, fmt.Errorf("context: split original: %w", err)
	}

	target := modified.Text()
	scored := make([]Span, 0, len(candidates))
	for _, c := range candidates {
		s := e.scorer.score(c.Body(), target)
		if s == 0 {
			continue
		}
		scored = append(scored, NewSpan(c.Start(), c.End(), c.Body(), s))
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return scored[i].start < scored[j].start
	})

	var selected []Span
	remaining := maxSize
	for i, span := range scored {
		if span.Len() <= remaining {
			selected = append(selected, span)
			remaining -= span.Len()
			continue
		}
		if i == 0 {
			selected = append(selected, truncateSpan(span, maxSize))
		}
		break
	}

	return NewWindow(selected), nil
}

// truncateSpan cuts a span down to limit runes, anchored at its start.
func truncateSpan(s Span, limit int) Span {
	runes := []rune(s.text)
	if len(runes) <= limit {
		return s
	}
	text := string(runes[:limit])
	return Span{
		start:     s.start,
		end:       s.start + len(text),
		text:      text,
		score:     s.score,
		truncated: true,
	}
}
