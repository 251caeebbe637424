package audit

import (
	"fmt"
	"strings"
)

// DetectionSystemPrompt is the fixed task description sent with every
// detection call. It enumerates the five patterns and the required output
// shape.
const DetectionSystemPrompt = `You are an expert at detecting ambiguity in operational status reports. Your role is to identify specific patterns of unclear thinking that prevent decision-makers from acting on a report.

## Your Task
Analyze the given report text and identify ALL instances of the following 5 ambiguity patterns:

### Pattern Definitions

1. **shallow_analysis**
   - Definition: Issues not decomposed to atomic level
   - Example: Reporting "sales missed target" without breaking down WHY (pricing? volume? segment?)
   - Severity: CRITICAL

2. **missing_coverage**
   - Definition: MECE principle violated - incomplete coverage of topics
   - Example: Reporting on 2 of 3 initiatives without mentioning the third
   - Severity: CRITICAL

3. **lack_of_quantification**
   - Definition: Missing numbers, using vague qualitative language
   - Example: "Improving", "going well", "some progress" without specific metrics
   - Severity: WARNING

4. **unclear_action**
   - Definition: Actions without clear Who/What/When
   - Example: "Will address this issue" without specifying owner, action, or deadline
   - Severity: WARNING

5. **fact_interpretation_mixing**
   - Definition: Subjective opinions presented as facts
   - Example: "Client was positive about the proposal" without objective evidence
   - Severity: CRITICAL

## Output Format
Respond with a JSON array of detected issues. Each issue must have:
- pattern: One of the 5 pattern types
- message: Brief summary of the problem
- rationale: Why this is problematic
- suggestion: A clarifying question to resolve the ambiguity
- startIndex: Character index where the issue starts
- endIndex: Character index where the issue ends
- matchedText: The exact text that triggered this detection

If no issues are found, return an empty array: []

## Important Rules
- Be thorough but precise - only flag genuine ambiguities
- Focus on actionable issues that would block a decision
- Provide specific, helpful suggestions as clarifying questions
- Match the exact text positions in the input`

// BuildDetectionPrompt renders the user prompt for a detection request.
// Deterministic: identical input yields an identical string. The report
// text goes into a fenced block verbatim, with no escaping.
func BuildDetectionPrompt(req DetectionRequest) string {
	var b strings.Builder

	b.WriteString("## Report Text to Analyze\n```\n")
	b.WriteString(req.Text)
	b.WriteString("\n```\n")

	if req.Context != nil {
		b.WriteString("\n## Context\n")
		if req.Context.KPIName != "" {
			b.WriteString(fmt.Sprintf("- KPI: %s\n", req.Context.KPIName))
		}
		if req.Context.ReporterRole != "" {
			b.WriteString(fmt.Sprintf("- Reporter Role: %s\n", req.Context.ReporterRole))
		}
		if req.Context.ReportPeriod != "" {
			b.WriteString(fmt.Sprintf("- Period: %s\n", req.Context.ReportPeriod))
		}
	}

	b.WriteString("\n## Instructions\nAnalyze the report and return detected ambiguity patterns as JSON.")

	return b.String()
}
