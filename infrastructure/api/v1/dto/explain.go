// Package dto defines the JSON request and response shapes of the v1 API.
package dto

// ExplainRequest is the body of POST /api/v1/explain.
type ExplainRequest struct {
	StoryName        string `json:"story_name"`
	StoryDescription string `json:"story_description,omitempty"`
	Instructions     string `json:"instructions,omitempty"`
	OriginalName     string `json:"original_name,omitempty"`
	OriginalCode     string `json:"original_code,omitempty"`
	ModifiedName     string `json:"modified_name,omitempty"`
	ModifiedCode     string `json:"modified_code"`
}

// Section is one (heading, body) pair of the produced document.
type Section struct {
	Level   int    `json:"level"`
	Heading string `json:"heading,omitempty"`
	Body    string `json:"body,omitempty"`
}

// ExplainResponse is the body returned by POST /api/v1/explain.
type ExplainResponse struct {
	Language string    `json:"language,omitempty"`
	Sections []Section `json:"sections"`
	Markdown string    `json:"markdown"`
	Notes    []string  `json:"notes,omitempty"`
}
