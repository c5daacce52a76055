// Package source holds the immutable input texts of a submission.
package source

import (
	"strings"
	"unicode/utf8"
)

// UnnamedDocument is the identifier used when the caller supplies no filename.
const UnnamedDocument = "unnamed"

// Document is the raw text of one input file (original or modified),
// immutable once constructed.
type Document struct {
	name     string
	text     string
	language string
}

// NewDocument creates a Document. An empty name becomes UnnamedDocument.
func NewDocument(name, text string) Document {
	if name == "" {
		name = UnnamedDocument
	}
	return Document{name: name, text: text}
}

// WithLanguage returns a copy of the document labeled with a detected
// language. The label is informational only; nothing in the pipeline
// interprets the text by language.
func (d Document) WithLanguage(language string) Document {
	d.language = language
	return d
}

// Name returns the document identifier.
func (d Document) Name() string { return d.name }

// Text returns the full document text.
func (d Document) Text() string { return d.text }

// Language returns the detected language label, or "" when not detected.
func (d Document) Language() string { return d.language }

// Lines returns the number of lines in the document.
func (d Document) Lines() int {
	if d.text == "" {
		return 0
	}
	n := strings.Count(d.text, "\n") + 1
	if strings.HasSuffix(d.text, "\n") {
		n--
	}
	return n
}

// Runes returns the document length in Unicode code points.
func (d Document) Runes() int { return utf8.RuneCountInString(d.text) }

// Empty reports whether the document contains no non-whitespace text.
func (d Document) Empty() bool { return strings.TrimSpace(d.text) == "" }
