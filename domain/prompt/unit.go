package prompt

import (
	"strings"

	"github.com/diffdochq/diffdoc/domain/chunk"
	diffcontext "github.com/diffdochq/diffdoc/domain/context"
	"github.com/diffdochq/diffdoc/domain/story"
)

// Unit is one bounded package of text sent for analysis: exactly one
// modified chunk, the original-code spans selected for it, the user story,
// and the free-text instructions. Immutable once assembled.
type Unit struct {
	index        int
	chunk        chunk.Chunk
	window       diffcontext.Window
	story        story.Story
	instructions string
}

// Index returns the chunk sequence index this unit was built for.
func (u Unit) Index() int { return u.index }

// Chunk returns the modified chunk.
func (u Unit) Chunk() chunk.Chunk { return u.chunk }

// Window returns the original-code context selected for the chunk.
func (u Unit) Window() diffcontext.Window { return u.window }

// Story returns the user story.
func (u Unit) Story() story.Story { return u.story }

// Instructions returns the additional analysis instructions, possibly "".
func (u Unit) Instructions() string { return u.instructions }

// Render returns the unit as one prompt text. The concatenation order is
// fixed: story name, story description, instructions, context spans in
// document order, then the modified chunk.
func (u Unit) Render() string {
	var b strings.Builder

	b.WriteString("User Story: ")
	b.WriteString(u.story.Name())
	b.WriteString("\n")
	if desc := u.story.Description(); desc != "" {
		b.WriteString(desc)
		b.WriteString("\n")
	}

	if u.instructions != "" {
		b.WriteString("\nAdditional Context & Instructions:\n")
		b.WriteString(u.instructions)
		b.WriteString("\n")
	}

	b.WriteString("\nOriginal Code (Key Sections):\n")
	if u.window.Empty() {
		b.WriteString("No original code provided\n")
	} else {
		for i, span := range u.window.Spans() {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString(span.Text())
			b.WriteString("\n")
		}
	}

	b.WriteString("\nModified Code:\n")
	b.WriteString(u.chunk.Text())
	b.WriteString("\n")

	return b.String()
}
