package service

import "errors"

// Sentinel errors surfaced by the submission pipeline.
var (
	// ErrInvalidConfiguration indicates invalid budgets or sizes. Rejected
	// before any chunking starts.
	ErrInvalidConfiguration = errors.New("diffdoc: invalid configuration")

	// ErrEmptyInput indicates empty modified code. Nothing to analyze.
	ErrEmptyInput = errors.New("diffdoc: modified code is empty")

	// ErrSubmissionFailed indicates every unit's analysis failed. No
	// document is returned in this case.
	ErrSubmissionFailed = errors.New("diffdoc: analysis failed for all sections")
)
