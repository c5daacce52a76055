// Package tokenizer provides token-based text measurement for prompt
// budgets expressed in model tokens rather than characters.
package tokenizer

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"

	"github.com/diffdochq/diffdoc/domain/prompt"
)

// DefaultEncoding is the encoding used when none is specified.
const DefaultEncoding = "cl100k_base"

// TiktokenSizer measures text in model tokens.
type TiktokenSizer struct {
	encoding *tiktoken.Tiktoken
}

// NewTiktokenSizer creates a sizer for the named encoding. An empty name
// selects DefaultEncoding.
func NewTiktokenSizer(encodingName string) (*TiktokenSizer, error) {
	if encodingName == "" {
		encodingName = DefaultEncoding
	}
	enc, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		return nil, fmt.Errorf("load encoding %q: %w", encodingName, err)
	}
	return &TiktokenSizer{encoding: enc}, nil
}

// Size returns the number of tokens in text.
func (s *TiktokenSizer) Size(text string) int {
	return len(s.encoding.Encode(text, nil, nil))
}

// Ensure TiktokenSizer implements the budget measurement interface.
var _ prompt.Sizer = (*TiktokenSizer)(nil)
