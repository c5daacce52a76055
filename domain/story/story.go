// Package story holds the user story a code change was made for.
package story

import "strings"

// Story is the name and description of the user story behind a change.
// Both fields are free text supplied by the user; the description may be
// empty.
type Story struct {
	name        string
	description string
}

// New creates a Story.
func New(name, description string) Story {
	return Story{name: name, description: description}
}

// Name returns the story name.
func (s Story) Name() string { return s.name }

// Description returns the story description.
func (s Story) Description() string { return s.description }

// Empty reports whether the story carries no text at all.
func (s Story) Empty() bool {
	return strings.TrimSpace(s.name) == "" && strings.TrimSpace(s.description) == ""
}
