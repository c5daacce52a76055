package prompt

import (
	"strings"
	"testing"

	diffcontext "github.com/diffdochq/diffdoc/domain/context"
	"github.com/diffdochq/diffdoc/domain/story"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAssembler_Validation(t *testing.T) {
	_, err := NewAssembler(0, nil)
	require.Error(t, err)

	_, err = NewAssembler(-5, nil)
	require.Error(t, err)

	a, err := NewAssembler(100, nil)
	require.NoError(t, err)
	assert.Equal(t, 100, a.Budget())
}

func TestAssemble_WithinBudgetKeepsAllSpans(t *testing.T) {
	c := singleChunk(t, "modified body")
	w := diffcontext.NewWindow([]diffcontext.Span{
		diffcontext.NewSpan(0, 10, "span one", 0.9),
		diffcontext.NewSpan(20, 30, "span two", 0.4),
	})
	s := story.New("name", "desc")

	a, err := NewAssembler(DefaultBudget, nil)
	require.NoError(t, err)
	u, err := a.Assemble(c, w, s, "")
	require.NoError(t, err)

	assert.Len(t, u.Window().Spans(), 2)
	assert.LessOrEqual(t, RuneSizer{}.Size(u.Render()), DefaultBudget)
}

func TestAssemble_DropsLowestScoreSpanFirst(t *testing.T) {
	c := singleChunk(t, "modified body")
	weak := strings.Repeat("w", 300)
	strong := strings.Repeat("s", 300)
	w := diffcontext.NewWindow([]diffcontext.Span{
		diffcontext.NewSpan(0, 300, weak, 0.1),
		diffcontext.NewSpan(400, 700, strong, 0.9),
	})
	s := story.New("name", "desc")

	// Fits one 300-rune span plus the fixed sections, not both.
	a, err := NewAssembler(450, nil)
	require.NoError(t, err)
	u, err := a.Assemble(c, w, s, "")
	require.NoError(t, err)

	spans := u.Window().Spans()
	require.Len(t, spans, 1)
	assert.Equal(t, strong, spans[0].Text())
	assert.LessOrEqual(t, RuneSizer{}.Size(u.Render()), 450)
}

func TestAssemble_TieDropsLaterSpan(t *testing.T) {
	c := singleChunk(t, "modified body")
	early := strings.Repeat("e", 300)
	late := strings.Repeat("l", 300)
	w := diffcontext.NewWindow([]diffcontext.Span{
		diffcontext.NewSpan(0, 300, early, 0.5),
		diffcontext.NewSpan(400, 700, late, 0.5),
	})
	s := story.New("name", "desc")

	a, err := NewAssembler(450, nil)
	require.NoError(t, err)
	u, err := a.Assemble(c, w, s, "")
	require.NoError(t, err)

	spans := u.Window().Spans()
	require.Len(t, spans, 1)
	assert.Equal(t, early, spans[0].Text())
}

func TestAssemble_SurvivorsStayInDocumentOrder(t *testing.T) {
	c := singleChunk(t, "modified body")
	w := diffcontext.NewWindow([]diffcontext.Span{
		diffcontext.NewSpan(0, 100, strings.Repeat("a", 100), 0.8),
		diffcontext.NewSpan(200, 500, strings.Repeat("b", 300), 0.1),
		diffcontext.NewSpan(600, 700, strings.Repeat("c", 100), 0.7),
	})
	s := story.New("name", "desc")

	a, err := NewAssembler(400, nil)
	require.NoError(t, err)
	u, err := a.Assemble(c, w, s, "")
	require.NoError(t, err)

	spans := u.Window().Spans()
	require.Len(t, spans, 2)
	assert.Less(t, spans[0].Start(), spans[1].Start())
	assert.Equal(t, strings.Repeat("a", 100), spans[0].Text())
	assert.Equal(t, strings.Repeat("c", 100), spans[1].Text())
}

func TestAssemble_OverBudgetWithNoSpansFails(t *testing.T) {
	c := singleChunk(t, strings.Repeat("x", 500))
	s := story.New("name", "desc")

	a, err := NewAssembler(100, nil)
	require.NoError(t, err)
	_, err = a.Assemble(c, diffcontext.Window{}, s, "")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBudgetExceeded)
}

type wordSizer struct{}

func (wordSizer) Size(text string) int { return len(strings.Fields(text)) }

func TestAssemble_UsesProvidedSizer(t *testing.T) {
	c := singleChunk(t, "one two three")
	s := story.New("name", "desc")

	a, err := NewAssembler(1, wordSizer{})
	require.NoError(t, err)
	_, err = a.Assemble(c, diffcontext.Window{}, s, "")
	assert.ErrorIs(t, err, ErrBudgetExceeded)

	a, err = NewAssembler(1000, wordSizer{})
	require.NoError(t, err)
	_, err = a.Assemble(c, diffcontext.Window{}, s, "")
	assert.NoError(t, err)
}
