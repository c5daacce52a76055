// Package chunk splits a text body into an ordered sequence of bounded
// chunks, cutting along safe boundaries and carrying overlap between
// neighbours.
package chunk

import "unicode/utf8"

// Chunk is a contiguous slice of a parent document. The body is the
// exclusive slice owned by this chunk; the prefix is overlap carried from
// the end of the previous chunk so that an open block remains visible
// across the cut. Concatenating the bodies of all chunks in index order
// reproduces the parent text exactly.
type Chunk struct {
	index  int
	body   string
	prefix string
	start  int
	end    int
}

// Index returns the 0-based position of this chunk in the sequence.
func (c Chunk) Index() int { return c.index }

// Body returns the chunk's exclusive slice of the parent text.
func (c Chunk) Body() string { return c.body }

// OverlapPrefix returns the text carried over from the previous chunk,
// or "" for the first chunk.
func (c Chunk) OverlapPrefix() string { return c.prefix }

// Text returns the overlap prefix followed by the body. This is the text
// a consumer should read; the prefix repeats the tail of the previous
// chunk by design.
func (c Chunk) Text() string { return c.prefix + c.body }

// Start returns the byte offset of the body in the parent text.
func (c Chunk) Start() int { return c.start }

// End returns the byte offset one past the end of the body.
func (c Chunk) End() int { return c.end }

// Len returns the body length in runes.
func (c Chunk) Len() int { return utf8.RuneCountInString(c.body) }
