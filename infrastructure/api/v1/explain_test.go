package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diffdochq/diffdoc/application/service"
	"github.com/diffdochq/diffdoc/domain/narrative"
	"github.com/diffdochq/diffdoc/domain/story"
	"github.com/diffdochq/diffdoc/infrastructure/api/v1/dto"
)

type fakeExplainer struct {
	lastReq service.Request
	doc     *narrative.Document
	err     error
}

func (f *fakeExplainer) Explain(_ context.Context, req service.Request) (*narrative.Document, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.doc, nil
}

func postExplain(t *testing.T, router *ExplainRouter, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(raw))
	rec := httptest.NewRecorder()
	router.Routes().ServeHTTP(rec, req)
	return rec
}

func successDoc(t *testing.T) *narrative.Document {
	t.Helper()
	d := narrative.NewDocument(story.New("Add VAT", "desc"), "")
	d.Append(narrative.NewResult(0, "## Solution\nadded VAT\n"))
	return d
}

func TestExplain_Success(t *testing.T) {
	explainer := &fakeExplainer{doc: successDoc(t)}
	router := NewExplainRouter(explainer, nil)

	rec := postExplain(t, router, dto.ExplainRequest{
		StoryName:    "Add VAT",
		ModifiedName: "tax.go",
		ModifiedCode: "package tax\n\nfunc VAT() int { return 21 }\n",
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var resp dto.ExplainResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Go", resp.Language)
	assert.NotEmpty(t, resp.Sections)
	assert.Equal(t, "User Story Name", resp.Sections[0].Heading)
	assert.Contains(t, resp.Markdown, "## Solution")

	assert.Equal(t, "Add VAT", explainer.lastReq.Story.Name())
	assert.Equal(t, "tax.go", explainer.lastReq.Modified.Name())
}

func TestExplain_MalformedJSON(t *testing.T) {
	router := NewExplainRouter(&fakeExplainer{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	router.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExplain_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"empty input", service.ErrEmptyInput, http.StatusUnprocessableEntity},
		{"invalid configuration", service.ErrInvalidConfiguration, http.StatusInternalServerError},
		{"submission failed", service.ErrSubmissionFailed, http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := NewExplainRouter(&fakeExplainer{err: tt.err}, nil)

			rec := postExplain(t, router, dto.ExplainRequest{
				StoryName:    "s",
				ModifiedCode: "x",
			})

			assert.Equal(t, tt.status, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}
