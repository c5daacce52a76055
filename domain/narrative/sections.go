package narrative

import "strings"

// Section is one (heading, body) pair of the final document. Level follows
// markdown convention; a zero level marks body text with no heading of its
// own.
type Section struct {
	Level   int
	Heading string
	Body    string
}

// ParseSections splits markdown text into sections at heading lines. Text
// before the first heading becomes a section with an empty heading. Bodies
// keep their internal formatting but are trimmed of surrounding blank
// lines.
func ParseSections(text string) []Section {
	var sections []Section
	var current Section
	var body strings.Builder
	started := false

	flush := func() {
		trimmed := strings.TrimSpace(body.String())
		if !started && trimmed == "" {
			return
		}
		current.Body = trimmed
		sections = append(sections, current)
		body.Reset()
	}

	for _, line := range strings.Split(text, "\n") {
		level, heading, ok := parseHeading(line)
		if !ok {
			body.WriteString(line)
			body.WriteString("\n")
			continue
		}
		flush()
		current = Section{Level: level, Heading: heading}
		started = true
	}
	flush()

	return sections
}

// parseHeading recognizes an ATX markdown heading line.
func parseHeading(line string) (level int, heading string, ok bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "#") {
		return 0, "", false
	}
	for level < len(trimmed) && trimmed[level] == '#' {
		level++
	}
	heading = strings.TrimSpace(trimmed[level:])
	if heading == "" {
		return 0, "", false
	}
	return level, heading, true
}
