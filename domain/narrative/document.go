package narrative

import (
	"fmt"
	"sort"
	"strings"

	"github.com/diffdochq/diffdoc/domain/story"
)

// Document is the ordered narrative built from all analysis results of one
// submission. It accumulates results until complete and is then handed to
// rendering and discarded. It is the only mutable entity in the pipeline.
type Document struct {
	story        story.Story
	instructions string
	blocks       []Result
	notes        []string
}

// NewDocument creates an empty Document for one submission.
func NewDocument(s story.Story, instructions string) *Document {
	return &Document{story: s, instructions: instructions}
}

// Append adds one analysis result. Blocks are kept sorted by sequence
// index regardless of insertion order.
func (d *Document) Append(r Result) {
	d.blocks = append(d.blocks, r)
	sort.Slice(d.blocks, func(i, j int) bool {
		return d.blocks[i].Index() < d.blocks[j].Index()
	})
}

// AddNote records a processing degradation, such as a truncated context
// span or a missing original file. Notes surface in the rendered document
// but never fail the submission.
func (d *Document) AddNote(note string) {
	d.notes = append(d.notes, note)
}

// Story returns the user story the document was produced for.
func (d *Document) Story() story.Story { return d.story }

// Blocks returns the analysis results in sequence order.
func (d *Document) Blocks() []Result {
	blocks := make([]Result, len(d.blocks))
	copy(blocks, d.blocks)
	return blocks
}

// Notes returns the recorded processing notes.
func (d *Document) Notes() []string {
	notes := make([]string, len(d.notes))
	copy(notes, d.notes)
	return notes
}

// Failed reports whether every block is a failure placeholder. An empty
// document has not failed.
func (d *Document) Failed() bool {
	if len(d.blocks) == 0 {
		return false
	}
	for _, b := range d.blocks {
		if !b.Failed() {
			return false
		}
	}
	return true
}

// Sections flattens the document into the ordered (heading, body) pairs
// consumed by rendering: the story sections first, an overview when the
// change was analyzed in more than one part, then each block's own
// sections, and finally any processing notes.
func (d *Document) Sections() []Section {
	var out []Section

	out = append(out, Section{Level: 2, Heading: "User Story Name", Body: d.story.Name()})
	if desc := strings.TrimSpace(d.story.Description()); desc != "" {
		out = append(out, Section{Level: 2, Heading: "User Story Description", Body: desc})
	}
	if instr := strings.TrimSpace(d.instructions); instr != "" {
		out = append(out, Section{Level: 2, Heading: "Additional Context & Instructions", Body: instr})
	}

	n := len(d.blocks)
	if n > 1 {
		out = append(out, Section{
			Level:   2,
			Heading: "Overview",
			Body: fmt.Sprintf("The submitted change was large and was analyzed in %d "+
				"sections. The sections below follow the order of the submitted code.", n),
		})
	}

	for i, block := range d.blocks {
		out = append(out, d.blockSections(i, n, block)...)
	}

	if len(d.notes) > 0 {
		out = append(out, Section{
			Level:   2,
			Heading: "Processing Notes",
			Body:    "- " + strings.Join(d.notes, "\n- "),
		})
	}

	return out
}

// blockSections expands one result into sections. Markdown headings inside
// the analysis text become their own sections, nested one level under the
// block heading; text without headings stays under the block heading.
func (d *Document) blockSections(i, n int, block Result) []Section {
	heading := "Code Change Analysis"
	if n > 1 {
		heading = fmt.Sprintf("Code Change Analysis (%d of %d)", i+1, n)
	}

	parsed := ParseSections(block.Text())
	if len(parsed) == 0 {
		return []Section{{Level: 2, Heading: heading, Body: ""}}
	}

	out := make([]Section, 0, len(parsed)+1)
	if parsed[0].Heading == "" {
		out = append(out, Section{Level: 2, Heading: heading, Body: parsed[0].Body})
		parsed = parsed[1:]
	} else {
		out = append(out, Section{Level: 2, Heading: heading})
	}
	for _, s := range parsed {
		level := s.Level + 1
		if level > 6 {
			level = 6
		}
		out = append(out, Section{Level: level, Heading: s.Heading, Body: s.Body})
	}
	return out
}

// Markdown renders the document as one markdown text.
func (d *Document) Markdown() string {
	var b strings.Builder
	for _, s := range d.Sections() {
		if s.Heading != "" {
			b.WriteString(strings.Repeat("#", s.Level))
			b.WriteString(" ")
			b.WriteString(s.Heading)
			b.WriteString("\n\n")
		}
		if s.Body != "" {
			b.WriteString(s.Body)
			b.WriteString("\n\n")
		}
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}
