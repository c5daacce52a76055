// Package v1 implements the version 1 HTTP API.
package v1

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/diffdochq/diffdoc/application/service"
	"github.com/diffdochq/diffdoc/domain/narrative"
	"github.com/diffdochq/diffdoc/domain/source"
	"github.com/diffdochq/diffdoc/domain/story"
	"github.com/diffdochq/diffdoc/infrastructure/api/middleware"
	"github.com/diffdochq/diffdoc/infrastructure/api/v1/dto"
	"github.com/diffdochq/diffdoc/infrastructure/detect"
)

// Explainer processes one submission into a narrative document.
type Explainer interface {
	Explain(ctx context.Context, req service.Request) (*narrative.Document, error)
}

// ExplainRouter handles the explain API endpoint.
type ExplainRouter struct {
	explainer Explainer
	logger    *slog.Logger
}

// NewExplainRouter creates a new ExplainRouter.
func NewExplainRouter(explainer Explainer, logger *slog.Logger) *ExplainRouter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExplainRouter{explainer: explainer, logger: logger}
}

// Routes returns the chi router for the explain endpoint.
func (r *ExplainRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/", r.Explain)

	return router
}

// Explain handles POST /api/v1/explain.
func (r *ExplainRouter) Explain(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	var body dto.ExplainRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		middleware.WriteError(w, req, http.StatusBadRequest, err, r.logger)
		return
	}

	modified := detect.Label(source.NewDocument(body.ModifiedName, body.ModifiedCode))
	original := source.NewDocument(body.OriginalName, body.OriginalCode)

	doc, err := r.explainer.Explain(ctx, service.Request{
		Original:     original,
		Modified:     modified,
		Story:        story.New(body.StoryName, body.StoryDescription),
		Instructions: body.Instructions,
	})
	if err != nil {
		middleware.WriteError(w, req, statusFor(err), err, r.logger)
		return
	}

	writeDocument(w, doc, modified.Language())
}

// statusFor maps pipeline errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrEmptyInput):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrInvalidConfiguration):
		return http.StatusInternalServerError
	case errors.Is(err, service.ErrSubmissionFailed):
		return http.StatusBadGateway
	case errors.Is(err, context.Canceled):
		return 499 // client closed request
	default:
		return http.StatusInternalServerError
	}
}

func writeDocument(w http.ResponseWriter, doc *narrative.Document, language string) {
	sections := doc.Sections()
	out := dto.ExplainResponse{
		Language: language,
		Sections: make([]dto.Section, len(sections)),
		Markdown: doc.Markdown(),
		Notes:    doc.Notes(),
	}
	for i, s := range sections {
		out.Sections[i] = dto.Section{Level: s.Level, Heading: s.Heading, Body: s.Body}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(out)
}
