package chunk

import (
	"fmt"
	"unicode/utf8"
)

// Default splitting parameters, matching the sizes the analysis pipeline
// was tuned with.
const (
	DefaultMaxSize = 2000
	DefaultOverlap = 200
)

// Params configures the splitter. Sizes are measured in runes.
type Params struct {
	// MaxSize is the maximum body size of a chunk. Must be positive.
	MaxSize int

	// Overlap is how many trailing runes of each chunk are carried into
	// the next chunk as a prefix. Must satisfy 0 <= Overlap < MaxSize.
	Overlap int
}

// DefaultParams returns the default splitting parameters.
func DefaultParams() Params {
	return Params{MaxSize: DefaultMaxSize, Overlap: DefaultOverlap}
}

// Validate checks the parameter constraints.
func (p Params) Validate() error {
	if p.MaxSize <= 0 {
		return fmt.Errorf("chunk: max size must be positive, got %d", p.MaxSize)
	}
	if p.Overlap < 0 || p.Overlap >= p.MaxSize {
		return fmt.Errorf("chunk: overlap must satisfy 0 <= overlap < max size, got overlap=%d max=%d", p.Overlap, p.MaxSize)
	}
	return nil
}

// Split cuts text into an ordered sequence of chunks.
//
// Each cut is placed at the safe boundary nearest to, but not past, the
// size limit: after a blank line when one exists in the window, otherwise
// after the last line break, otherwise exactly at the limit (a single
// unbroken line longer than MaxSize is force-split rather than rejected).
// Text no longer than MaxSize comes back as a single chunk.
func Split(text string, params Params) ([]Chunk, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if text == "" {
		return nil, nil
	}

	runes := []rune(text)
	if len(runes) <= params.MaxSize {
		return []Chunk{{index: 0, body: text, start: 0, end: len(text)}}, nil
	}

	var chunks []Chunk
	startByte := 0
	startRune := 0
	prefix := ""

	for startRune < len(runes) {
		remaining := len(runes) - startRune

		var cut int
		if remaining <= params.MaxSize {
			cut = remaining
		} else {
			cut = boundaryCut(runes[startRune : startRune+params.MaxSize])
		}

		body := string(runes[startRune : startRune+cut])
		chunks = append(chunks, Chunk{
			index:  len(chunks),
			body:   body,
			prefix: prefix,
			start:  startByte,
			end:    startByte + len(body),
		})

		startByte += len(body)
		startRune += cut
		prefix = tailRunes(body, params.Overlap)
	}

	return chunks, nil
}

// boundaryCut returns the rune count at which to cut the window. It prefers
// the last blank-line boundary, then the last line break, and falls back to
// the full window when the text is one unbroken run.
func boundaryCut(window []rune) int {
	// Blank line: two consecutive newlines. Cut after the second so the
	// blank line stays with the preceding chunk.
	for i := len(window) - 1; i >= 1; i-- {
		if window[i] == '\n' && window[i-1] == '\n' {
			return i + 1
		}
	}
	for i := len(window) - 1; i >= 0; i-- {
		if window[i] == '\n' {
			return i + 1
		}
	}
	return len(window)
}

// tailRunes returns the last n runes of s, or all of s when shorter.
func tailRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[len(runes)-n:])
}
