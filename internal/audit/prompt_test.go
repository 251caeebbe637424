package audit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildDetectionPrompt(t *testing.T) {
	t.Run("text goes into a fenced block verbatim", func(t *testing.T) {
		prompt := BuildDetectionPrompt(DetectionRequest{Text: "Sales are <doing> fine & dandy"})

		assert.Contains(t, prompt, "```\nSales are <doing> fine & dandy\n```")
		assert.True(t, strings.HasPrefix(prompt, "## Report Text to Analyze"))
		assert.True(t, strings.HasSuffix(prompt, "return detected ambiguity patterns as JSON."))
	})

	t.Run("deterministic for identical input", func(t *testing.T) {
		req := DetectionRequest{
			Text:    "Weekly update",
			Context: &Context{KPIName: "ARR", ReporterRole: "Sales Lead", ReportPeriod: "2026-W35"},
		}
		assert.Equal(t, BuildDetectionPrompt(req), BuildDetectionPrompt(req))
	})

	t.Run("context section lists only present fields", func(t *testing.T) {
		prompt := BuildDetectionPrompt(DetectionRequest{
			Text:    "Weekly update",
			Context: &Context{KPIName: "ARR"},
		})

		assert.Contains(t, prompt, "## Context")
		assert.Contains(t, prompt, "- KPI: ARR")
		assert.NotContains(t, prompt, "Reporter Role")
		assert.NotContains(t, prompt, "- Period:")
	})

	t.Run("no context section when context is nil", func(t *testing.T) {
		prompt := BuildDetectionPrompt(DetectionRequest{Text: "Weekly update"})
		assert.NotContains(t, prompt, "## Context")
	})
}

func TestDetectionSystemPrompt(t *testing.T) {
	// The fixed instruction must enumerate all five patterns and the
	// seven-field output shape.
	for pattern := range PatternSeverity {
		assert.Contains(t, DetectionSystemPrompt, string(pattern))
	}

	for _, field := range []string{"pattern", "message", "rationale", "suggestion", "startIndex", "endIndex", "matchedText"} {
		assert.Contains(t, DetectionSystemPrompt, field)
	}

	assert.Contains(t, DetectionSystemPrompt, "empty array")
}
