package prompt

import (
	"errors"
	"fmt"

	"github.com/diffdochq/diffdoc/domain/chunk"
	diffcontext "github.com/diffdochq/diffdoc/domain/context"
	"github.com/diffdochq/diffdoc/domain/story"
)

// DefaultBudget is the default prompt unit budget in rune units: the
// default chunk size plus the default context cap, with headroom for the
// story and instructions.
const DefaultBudget = 12000

// ErrBudgetExceeded indicates a unit cannot fit its budget even with every
// context span removed. The chunk size was configured larger than the unit
// budget allows; this is a caller misconfiguration, not a runtime
// condition to recover from.
var ErrBudgetExceeded = errors.New("prompt: unit exceeds budget with all context spans removed")

// Assembler builds Units and enforces the total-size budget.
type Assembler struct {
	budget int
	sizer  Sizer
}

// NewAssembler creates an Assembler. A nil sizer measures runes.
func NewAssembler(budget int, sizer Sizer) (*Assembler, error) {
	if budget <= 0 {
		return nil, fmt.Errorf("prompt: budget must be positive, got %d", budget)
	}
	if sizer == nil {
		sizer = RuneSizer{}
	}
	return &Assembler{budget: budget, sizer: sizer}, nil
}

// Assemble combines one modified chunk with its context window, the user
// story, and the instructions into a Unit whose rendered size fits the
// budget. When the naive combination is too large, context spans are
// dropped lowest-score-first (the chunk and story are never dropped)
// until the unit fits; if it still does not fit with zero spans left,
// Assemble fails with ErrBudgetExceeded.
func (a *Assembler) Assemble(c chunk.Chunk, window diffcontext.Window, s story.Story, instructions string) (Unit, error) {
	spans := window.Spans()

	for {
		unit := Unit{
			index:        c.Index(),
			chunk:        c,
			window:       diffcontext.NewWindow(spans),
			story:        s,
			instructions: instructions,
		}

		if a.sizer.Size(unit.Render()) <= a.budget {
			return unit, nil
		}
		if len(spans) == 0 {
			return Unit{}, fmt.Errorf("%w: chunk %d renders to %d units against a budget of %d",
				ErrBudgetExceeded, c.Index(), a.sizer.Size(unit.Render()), a.budget)
		}
		spans = dropLowestScore(spans)
	}
}

// Budget returns the configured budget.
func (a *Assembler) Budget() int { return a.budget }

// dropLowestScore removes the span with the lowest relevance score. On a
// tie the span later in the document is dropped, keeping the earlier one
// for determinism.
func dropLowestScore(spans []diffcontext.Span) []diffcontext.Span {
	lowest := 0
	for i := 1; i < len(spans); i++ {
		if spans[i].Score() < spans[lowest].Score() ||
			(spans[i].Score() == spans[lowest].Score() && spans[i].Start() > spans[lowest].Start()) {
			lowest = i
		}
	}
	kept := make([]diffcontext.Span, 0, len(spans)-1)
	kept = append(kept, spans[:lowest]...)
	kept = append(kept, spans[lowest+1:]...)
	return kept
}
