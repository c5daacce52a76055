package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/diffdochq/diffdoc/domain/chunk"
	diffcontext "github.com/diffdochq/diffdoc/domain/context"
	"github.com/diffdochq/diffdoc/domain/narrative"
	"github.com/diffdochq/diffdoc/domain/prompt"
	"github.com/diffdochq/diffdoc/domain/service"
	"github.com/diffdochq/diffdoc/domain/source"
	"github.com/diffdochq/diffdoc/domain/story"
	"github.com/diffdochq/diffdoc/internal/config"
	"github.com/diffdochq/diffdoc/internal/log"
)

// Request carries one user submission: the modified code (required), the
// original file (optional), the user story, and free-text instructions.
type Request struct {
	Original     source.Document
	Modified     source.Document
	Story        story.Story
	Instructions string
}

// Submission runs the whole pipeline for one request: chunk the modified
// code, extract original-code context per chunk, assemble prompt units,
// and orchestrate the analysis into an ordered document.
type Submission struct {
	pipeline     config.Pipeline
	orchestrator *Orchestrator
	sizer        prompt.Sizer
	logger       *log.Logger
}

// NewSubmission creates a Submission service. A nil sizer measures runes.
func NewSubmission(analyzer service.Analyzer, pipeline config.Pipeline, sizer prompt.Sizer, logger *log.Logger) *Submission {
	if logger == nil {
		logger = log.Default()
	}
	return &Submission{
		pipeline:     pipeline,
		orchestrator: NewOrchestrator(analyzer, pipeline, logger),
		sizer:        sizer,
		logger:       logger,
	}
}

// Explain processes one submission and returns the ordered narrative
// document. Configuration and input are validated before any chunking
// starts; extraction degradations are recorded as document notes rather
// than errors.
func (s *Submission) Explain(ctx context.Context, req Request) (*narrative.Document, error) {
	if err := s.pipeline.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidConfiguration, err)
	}
	if req.Modified.Empty() {
		return nil, ErrEmptyInput
	}

	ctx = log.WithSubmissionID(ctx, uuid.NewString())

	chunks, err := chunk.Split(req.Modified.Text(), chunk.Params{
		MaxSize: s.pipeline.MaxChunkSize(),
		Overlap: s.pipeline.Overlap(),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidConfiguration, err)
	}
	s.logger.InfoContext(ctx, "submission accepted",
		"modified", req.Modified.Name(), "chunks", len(chunks))

	extractor, err := diffcontext.NewExtractor(s.pipeline.MaxChunkSize())
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidConfiguration, err)
	}
	assembler, err := prompt.NewAssembler(s.pipeline.UnitBudget(), s.sizer)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidConfiguration, err)
	}

	doc := narrative.NewDocument(req.Story, req.Instructions)
	if req.Original.Empty() {
		doc.AddNote("No original file was supplied; the change was analyzed without original-code context.")
	}

	units, err := s.assembleUnits(ctx, req, chunks, extractor, assembler, doc)
	if err != nil {
		return nil, err
	}

	if err := s.orchestrator.Analyze(ctx, units, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// assembleUnits builds one prompt unit per chunk, recording extraction
// degradations on the document as it goes.
func (s *Submission) assembleUnits(
	ctx context.Context,
	req Request,
	chunks []chunk.Chunk,
	extractor *diffcontext.Extractor,
	assembler *prompt.Assembler,
	doc *narrative.Document,
) ([]prompt.Unit, error) {
	units := make([]prompt.Unit, 0, len(chunks))

	for _, c := range chunks {
		window, err := extractor.Extract(req.Original.Text(), c, s.pipeline.MaxContextSize())
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidConfiguration, err)
		}
		if window.Truncated() {
			doc.AddNote(fmt.Sprintf(
				"A context span for section %d was truncated to fit the context budget.", c.Index()+1))
			s.logger.DebugContext(ctx, "context span truncated", "chunk", c.Index())
		}

		unit, err := assembler.Assemble(c, window, req.Story, req.Instructions)
		if err != nil {
			if errors.Is(err, prompt.ErrBudgetExceeded) {
				return nil, fmt.Errorf("%w: %s", ErrInvalidConfiguration, err)
			}
			return nil, err
		}
		if dropped := len(window.Spans()) - len(unit.Window().Spans()); dropped > 0 {
			doc.AddNote(fmt.Sprintf(
				"%d context span(s) for section %d were dropped to fit the prompt budget.", dropped, c.Index()+1))
		}
		units = append(units, unit)
	}

	return units, nil
}
