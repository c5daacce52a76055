// Package narrative holds the per-chunk analysis results and assembles
// them into the ordered document handed to rendering.
package narrative

// Placeholder is the body used for a section whose analysis failed after
// all retries.
const Placeholder = "This section could not be analyzed. The analysis " +
	"call failed after all retry attempts; the remaining sections were " +
	"analyzed normally."

// Result is the narrative text produced for one prompt unit, tagged with
// the unit's sequence index so results can be re-ordered after concurrent
// processing.
type Result struct {
	index  int
	text   string
	failed bool
}

// NewResult creates a successful Result.
func NewResult(index int, text string) Result {
	return Result{index: index, text: text}
}

// NewFailedResult creates a placeholder Result for a unit whose analysis
// exhausted its retries.
func NewFailedResult(index int) Result {
	return Result{index: index, text: Placeholder, failed: true}
}

// Index returns the sequence index of the prompt unit this result is for.
func (r Result) Index() int { return r.index }

// Text returns the narrative text, or the placeholder if analysis failed.
func (r Result) Text() string { return r.text }

// Failed reports whether this result is a failure placeholder.
func (r Result) Failed() bool { return r.failed }
