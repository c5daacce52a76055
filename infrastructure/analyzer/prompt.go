package analyzer

import (
	"strings"

	"github.com/diffdochq/diffdoc/domain/prompt"
)

// systemPrompt frames the model as a differential code analyst.
const systemPrompt = "You are an expert in differential code analysis. " +
	"You compare original and modified code and produce precise technical " +
	"documentation of what changed, how it works, and what it affects."

// outputFormat is the exact response structure requested from the model.
// The section assembler downstream relies on these headings.
const outputFormat = `Provide technical explanation in this exact format:

## Solution
[Overall what changed]

### How It Works
[Technical details with code references]

### Impacts
[Potential effects on system]`

// buildUserPrompt wraps the rendered unit with the analysis instruction and
// the required output format.
func buildUserPrompt(unit prompt.Unit) string {
	var b strings.Builder
	b.WriteString("Analyze these code changes:\n\n")
	b.WriteString(unit.Render())
	b.WriteString("\n")
	b.WriteString(outputFormat)
	return b.String()
}
