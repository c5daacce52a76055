// Package prompt assembles budget-bounded analysis units from a modified
// chunk, its original-code context, and the user story.
package prompt

import "unicode/utf8"

// Sizer measures text in budget units. The default measures runes; a
// token-based implementation can be plugged in when budgets are expressed
// in model tokens.
type Sizer interface {
	Size(text string) int
}

// RuneSizer measures text in Unicode code points.
type RuneSizer struct{}

// Size returns the number of runes in text.
func (RuneSizer) Size(text string) int { return utf8.RuneCountInString(text) }
