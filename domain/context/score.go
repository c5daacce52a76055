package context

import (
	"unicode"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// minSharedRun is the minimum length in runes of a common substring run
// before it contributes to the score. Shorter runs are mostly keywords and
// punctuation shared by any two pieces of code.
const minSharedRun = 16

// scorer computes a deterministic lexical similarity between a candidate
// span of the original document and a modified chunk. No randomness, no
// embeddings: shared identifier tokens plus long shared substring runs,
// normalized by the longer of the two texts.
type scorer struct {
	dmp *diffmatchpatch.DiffMatchPatch
}

func newScorer() *scorer {
	dmp := diffmatchpatch.New()
	// A deadline would make the diff depend on wall-clock time; the score
	// must be a pure function of its inputs.
	dmp.DiffTimeout = 0
	return &scorer{dmp: dmp}
}

// score returns 0 when the texts share nothing of note.
func (s *scorer) score(candidate, target string) float64 {
	if candidate == "" || target == "" {
		return 0
	}

	shared := tokenOverlap(identTokens(candidate), identTokens(target))
	runs := s.sharedRunLength(candidate, target)
	if shared == 0 && runs == 0 {
		return 0
	}

	denom := utf8.RuneCountInString(candidate)
	if n := utf8.RuneCountInString(target); n > denom {
		denom = n
	}
	return float64(shared+runs) / float64(denom)
}

// sharedRunLength sums the lengths of common substring runs of at least
// minSharedRun runes between the two texts.
func (s *scorer) sharedRunLength(a, b string) int {
	total := 0
	for _, d := range s.dmp.DiffMain(a, b, false) {
		if d.Type != diffmatchpatch.DiffEqual {
			continue
		}
		if n := utf8.RuneCountInString(d.Text); n >= minSharedRun {
			total += n
		}
	}
	return total
}

// identTokens splits text into identifier-like tokens (runs of letters,
// digits and underscores, at least two runes long) with their counts.
// Case-sensitive: `Conn` and `conn` are different identifiers.
func identTokens(text string) map[string]int {
	tokens := make(map[string]int)
	var current []rune
	flush := func() {
		if len(current) >= 2 {
			tokens[string(current)]++
		}
		current = current[:0]
	}
	for _, r := range text {
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			current = append(current, r)
			continue
		}
		flush()
	}
	flush()
	return tokens
}

// tokenOverlap weights each shared token by its length: longer identifiers
// are stronger evidence of relatedness than short common words.
func tokenOverlap(a, b map[string]int) int {
	total := 0
	for tok, ca := range a {
		cb, ok := b[tok]
		if !ok {
			continue
		}
		n := ca
		if cb < n {
			n = cb
		}
		total += n * utf8.RuneCountInString(tok)
	}
	return total
}
