package context

import (
	"strings"
	"testing"

	"github.com/diffdochq/diffdoc/domain/chunk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func modifiedChunk(t *testing.T, text string) chunk.Chunk {
	t.Helper()
	chunks, err := chunk.Split(text, chunk.Params{MaxSize: 4000, Overlap: 0})
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	return chunks[0]
}

const invoiceBlock = `func calculateInvoiceTotal(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.UnitPrice.Mul(item.Quantity))
	}
	return total
}`

const shippingBlock = `func estimateShippingWeight(pkgs []Package) float64 {
	weight := 0.0
	for _, pkg := range pkgs {
		weight += pkg.GrossKilograms
	}
	return weight
}`

func TestExtract_NoOriginalYieldsEmptyWindow(t *testing.T) {
	e, err := NewExtractor(2000)
	require.NoError(t, err)

	w, err := e.Extract("", modifiedChunk(t, "anything at all"), 5000)
	require.NoError(t, err)

	assert.True(t, w.Empty())
}

func TestExtract_SelectsRelevantSpan(t *testing.T) {
	original := invoiceBlock + "\n\n" + shippingBlock + "\n"
	modified := strings.Replace(invoiceBlock, "item.Quantity", "item.Quantity.Round(2)", 1)

	e, err := NewExtractor(len(invoiceBlock) + 10)
	require.NoError(t, err)

	w, err := e.Extract(original, modifiedChunk(t, modified), 5000)
	require.NoError(t, err)

	require.False(t, w.Empty())
	assert.Contains(t, w.Spans()[0].Text(), "calculateInvoiceTotal")
}

func TestExtract_Deterministic(t *testing.T) {
	original := invoiceBlock + "\n\n" + shippingBlock + "\n\n" + strings.Repeat("// filler\n", 50)
	mc := modifiedChunk(t, invoiceBlock)

	e, err := NewExtractor(400)
	require.NoError(t, err)

	first, err := e.Extract(original, mc, 600)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := e.Extract(original, mc, 600)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestExtract_SpansReturnedInDocumentOrder(t *testing.T) {
	// Both blocks share identifiers with the modified text; the later block
	// matches more strongly, but output order must follow the document.
	modified := shippingBlock + "\n" + "weight := calculateInvoiceTotal(nil)"
	original := invoiceBlock + "\n\n" + shippingBlock + "\n"

	e, err := NewExtractor(400)
	require.NoError(t, err)

	w, err := e.Extract(original, modifiedChunk(t, modified), 5000)
	require.NoError(t, err)

	spans := w.Spans()
	require.GreaterOrEqual(t, len(spans), 2)
	for i := 1; i < len(spans); i++ {
		assert.Greater(t, spans[i].Start(), spans[i-1].Start())
	}
}

func TestExtract_RespectsBudget(t *testing.T) {
	var blocks []string
	for i := 0; i < 20; i++ {
		blocks = append(blocks, invoiceBlock)
	}
	original := strings.Join(blocks, "\n\n")

	e, err := NewExtractor(300)
	require.NoError(t, err)

	w, err := e.Extract(original, modifiedChunk(t, invoiceBlock), 700)
	require.NoError(t, err)

	require.False(t, w.Empty())
	assert.LessOrEqual(t, w.Len(), 700)
	assert.False(t, w.Truncated())
}

func TestExtract_TruncatesOversizedTopSpan(t *testing.T) {
	// One candidate spanning the whole original, larger than the budget.
	original := strings.Repeat("total := calculateInvoiceTotal(items)\n", 40)

	e, err := NewExtractor(10000)
	require.NoError(t, err)

	w, err := e.Extract(original, modifiedChunk(t, invoiceBlock), 200)
	require.NoError(t, err)

	spans := w.Spans()
	require.Len(t, spans, 1)
	assert.True(t, spans[0].Truncated())
	assert.Equal(t, 200, spans[0].Len())
	assert.Equal(t, 0, spans[0].Start())
	assert.True(t, w.Truncated())
}

func TestExtract_ExcludesUnrelatedSpans(t *testing.T) {
	original := "!!! ??? *** %%%\n\n@@ ## $$\n"

	e, err := NewExtractor(2000)
	require.NoError(t, err)

	w, err := e.Extract(original, modifiedChunk(t, invoiceBlock), 5000)
	require.NoError(t, err)

	assert.True(t, w.Empty())
}

func TestExtract_InvalidArguments(t *testing.T) {
	_, err := NewExtractor(0)
	require.Error(t, err)

	e, err := NewExtractor(100)
	require.NoError(t, err)

	_, err = e.Extract("original", modifiedChunk(t, "x"), 0)
	require.Error(t, err)
}
