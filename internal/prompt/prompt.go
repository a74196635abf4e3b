// Package prompt assembles the bounded summarization prompt from per-source
// log text. Build is pure: no I/O, deterministic for a given input slice.
package prompt

import (
	"fmt"
	"strings"

	"github.com/summerlog/summerlog/internal/model"
)

// DefaultMaxCharsPerSource bounds each source's section when no cap is configured.
const DefaultMaxCharsPerSource = 20000

const preamble = `You are an expert SRE assistant. Your task is to analyze the following Docker container logs since %s and provide a clear, actionable summary.

Please structure your response in Markdown as follows:

### 1. Overall Health Summary
- A brief, one-sentence summary of the system's health. If everything is normal, state that clearly.

### 2. Key Events & Issues
- Use a bulleted list to describe significant events, warnings, or errors.
- For each item, specify the affected container and the severity.
- **IMPORTANT**: Wrap the severity level in a span tag with a class corresponding to the severity. For example:
  - For HIGH severity: ` + "`<span class=\"severity-high\">HIGH</span>`" + `
  - For MEDIUM severity: ` + "`<span class=\"severity-medium\">MEDIUM</span>`" + `
  - For LOW severity: ` + "`<span class=\"severity-low\">LOW</span>`" + `

### 3. Recommendations & Next Steps
- For each issue identified, provide a clear, numbered list of recommended actions to investigate or resolve it.
- If no issues are found, recommend continued monitoring.

Here are the logs:

`

// Build renders the prompt for one run. Each source's text is independently
// truncated to at most maxCharsPerSource characters, keeping the tail so the
// most recent events survive the budget. Sections appear in the order of the
// input slice. A degraded source renders an inline error note instead of log
// text, so the summarizer still sees that the source failed. Sources that
// produced nothing are noted as quiet rather than omitted.
func Build(logs []model.SourceLog, windowDesc string, maxCharsPerSource int) string {
	if maxCharsPerSource <= 0 {
		maxCharsPerSource = DefaultMaxCharsPerSource
	}

	var b strings.Builder
	fmt.Fprintf(&b, preamble, windowDesc)

	for i, sl := range logs {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "## Container: %s\n\n", sl.Source)
		switch {
		case sl.Degraded():
			fmt.Fprintf(&b, "```\nError collecting logs: %v\n```", sl.Err)
		case sl.Empty():
			b.WriteString("```\n(no log output in this window)\n```")
		default:
			b.WriteString("```\n")
			b.WriteString(tail(sl.Text, maxCharsPerSource))
			b.WriteString("\n```")
		}
	}
	b.WriteString("\n")

	return b.String()
}

// tail keeps at most max trailing characters of s. The suffix is always
// preserved; only the oldest text is dropped.
func tail(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[len(s)-max:]
}
