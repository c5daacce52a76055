package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diffdochq/diffdoc/domain/chunk"
	diffcontext "github.com/diffdochq/diffdoc/domain/context"
	"github.com/diffdochq/diffdoc/domain/narrative"
	"github.com/diffdochq/diffdoc/domain/prompt"
	"github.com/diffdochq/diffdoc/domain/story"
	"github.com/diffdochq/diffdoc/internal/config"
)

// stubAnalyzer returns canned responses per unit index.
type stubAnalyzer struct {
	mu    sync.Mutex
	calls map[int]int
	fn    func(ctx context.Context, unit prompt.Unit, attempt int) (string, error)
}

func newStubAnalyzer(fn func(ctx context.Context, unit prompt.Unit, attempt int) (string, error)) *stubAnalyzer {
	return &stubAnalyzer{calls: make(map[int]int), fn: fn}
}

func (s *stubAnalyzer) AnalyzeUnit(ctx context.Context, unit prompt.Unit) (string, error) {
	s.mu.Lock()
	s.calls[unit.Index()]++
	attempt := s.calls[unit.Index()]
	s.mu.Unlock()
	return s.fn(ctx, unit, attempt)
}

func (s *stubAnalyzer) callCount(index int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[index]
}

func makeUnits(t *testing.T, n int) []prompt.Unit {
	t.Helper()
	text := strings.Repeat(strings.Repeat("x", 99)+"\n", n)
	chunks, err := chunk.Split(text, chunk.Params{MaxSize: 100, Overlap: 0})
	require.NoError(t, err)
	require.Len(t, chunks, n)

	assembler, err := prompt.NewAssembler(prompt.DefaultBudget, nil)
	require.NoError(t, err)

	units := make([]prompt.Unit, 0, n)
	for _, c := range chunks {
		u, err := assembler.Assemble(c, diffcontext.Window{}, story.New("s", "d"), "")
		require.NoError(t, err)
		units = append(units, u)
	}
	return units
}

func testPipeline() config.Pipeline {
	return config.NewPipeline().
		WithConcurrencyWidth(3).
		WithRetryLimit(1).
		WithCallTimeout(time.Second)
}

func TestOrchestrator_OrdersResultsBySequenceIndex(t *testing.T) {
	// The first unit finishes last; the document must still be ordered.
	analyzer := newStubAnalyzer(func(_ context.Context, unit prompt.Unit, _ int) (string, error) {
		if unit.Index() == 0 {
			time.Sleep(50 * time.Millisecond)
		}
		return fmt.Sprintf("analysis %d", unit.Index()), nil
	})
	o := NewOrchestrator(analyzer, testPipeline(), nil)
	doc := narrative.NewDocument(story.New("s", ""), "")

	err := o.Analyze(context.Background(), makeUnits(t, 3), doc)
	require.NoError(t, err)

	blocks := doc.Blocks()
	require.Len(t, blocks, 3)
	for i, b := range blocks {
		assert.Equal(t, i, b.Index())
		assert.Equal(t, fmt.Sprintf("analysis %d", i), b.Text())
	}
}

func TestOrchestrator_PartialFailureBecomesPlaceholder(t *testing.T) {
	analyzer := newStubAnalyzer(func(_ context.Context, unit prompt.Unit, _ int) (string, error) {
		if unit.Index() == 1 {
			return "", errors.New("model unavailable")
		}
		return "ok", nil
	})
	o := NewOrchestrator(analyzer, testPipeline(), nil)
	doc := narrative.NewDocument(story.New("s", ""), "")

	err := o.Analyze(context.Background(), makeUnits(t, 3), doc)
	require.NoError(t, err)

	blocks := doc.Blocks()
	require.Len(t, blocks, 3)
	assert.False(t, blocks[0].Failed())
	assert.True(t, blocks[1].Failed())
	assert.Equal(t, narrative.Placeholder, blocks[1].Text())
	assert.False(t, blocks[2].Failed())
}

func TestOrchestrator_AllFailedReportsSubmissionFailure(t *testing.T) {
	analyzer := newStubAnalyzer(func(context.Context, prompt.Unit, int) (string, error) {
		return "", errors.New("model unavailable")
	})
	o := NewOrchestrator(analyzer, testPipeline(), nil)
	doc := narrative.NewDocument(story.New("s", ""), "")

	err := o.Analyze(context.Background(), makeUnits(t, 2), doc)

	require.ErrorIs(t, err, ErrSubmissionFailed)
}

func TestOrchestrator_RetriesUntilSuccess(t *testing.T) {
	analyzer := newStubAnalyzer(func(_ context.Context, _ prompt.Unit, attempt int) (string, error) {
		if attempt == 1 {
			return "", errors.New("transient")
		}
		return "recovered", nil
	})
	o := NewOrchestrator(analyzer, testPipeline(), nil)
	doc := narrative.NewDocument(story.New("s", ""), "")

	err := o.Analyze(context.Background(), makeUnits(t, 1), doc)
	require.NoError(t, err)

	blocks := doc.Blocks()
	require.Len(t, blocks, 1)
	assert.Equal(t, "recovered", blocks[0].Text())
	assert.Equal(t, 2, analyzer.callCount(0))
}

func TestOrchestrator_RetryLimitBoundsAttempts(t *testing.T) {
	analyzer := newStubAnalyzer(func(context.Context, prompt.Unit, int) (string, error) {
		return "", errors.New("persistent")
	})
	pipeline := testPipeline().WithRetryLimit(2)
	o := NewOrchestrator(analyzer, pipeline, nil)
	doc := narrative.NewDocument(story.New("s", ""), "")

	err := o.Analyze(context.Background(), makeUnits(t, 1), doc)

	require.ErrorIs(t, err, ErrSubmissionFailed)
	assert.Equal(t, 3, analyzer.callCount(0)) // initial call plus two retries
}

func TestOrchestrator_CancellationAbandonsSubmission(t *testing.T) {
	analyzer := newStubAnalyzer(func(ctx context.Context, _ prompt.Unit, _ int) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
	o := NewOrchestrator(analyzer, testPipeline(), nil)
	doc := narrative.NewDocument(story.New("s", ""), "")

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	err := o.Analyze(ctx, makeUnits(t, 2), doc)

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSubmissionFailed)
	assert.Empty(t, doc.Blocks())
}

func TestOrchestrator_CallTimeoutCountsAsFailure(t *testing.T) {
	analyzer := newStubAnalyzer(func(ctx context.Context, _ prompt.Unit, _ int) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
	pipeline := testPipeline().WithCallTimeout(10 * time.Millisecond)
	o := NewOrchestrator(analyzer, pipeline, nil)
	doc := narrative.NewDocument(story.New("s", ""), "")

	err := o.Analyze(context.Background(), makeUnits(t, 1), doc)

	require.ErrorIs(t, err, ErrSubmissionFailed)
}
