package audit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func itemWith(pattern Pattern, matchedText, message string) AuditItem {
	return NewItem(Finding{
		Pattern:     pattern,
		Message:     message,
		Rationale:   "r",
		Suggestion:  "s",
		MatchedText: matchedText,
	}, time.Now())
}

func TestInferFacts(t *testing.T) {
	t.Run("deal keyword yields conversion rate fact", func(t *testing.T) {
		facts := InferFacts(itemWith(PatternShallowAnalysis, "the deal is stalled", "vague"))
		require.Len(t, facts, 1)
		assert.Equal(t, "Deal conversion rate", facts[0].Label)
		assert.Equal(t, DiffDown, facts[0].DiffDirection)
	})

	t.Run("message keyword also matches", func(t *testing.T) {
		facts := InferFacts(itemWith(PatternShallowAnalysis, "nothing relevant here", "conversion rate not broken down"))
		require.Len(t, facts, 1)
		assert.Equal(t, "Deal conversion rate", facts[0].Label)
	})

	t.Run("progress keyword yields two CRM facts", func(t *testing.T) {
		facts := InferFacts(itemWith(PatternLackOfQuantification, "good progress overall", "vague"))
		require.Len(t, facts, 2)
		assert.Equal(t, "Deal phase", facts[0].Label)
		assert.Equal(t, "Win probability", facts[1].Label)
	})

	t.Run("revenue keyword yields ARR fact", func(t *testing.T) {
		facts := InferFacts(itemWith(PatternShallowAnalysis, "revenue looks fine", "vague"))
		require.Len(t, facts, 1)
		assert.Equal(t, "ARR", facts[0].Label)
	})

	t.Run("churn keyword yields churn fact", func(t *testing.T) {
		facts := InferFacts(itemWith(PatternShallowAnalysis, "churn seems stable", "vague"))
		require.Len(t, facts, 1)
		assert.Equal(t, "Churn rate", facts[0].Label)
	})

	t.Run("customer keyword yields active users fact", func(t *testing.T) {
		facts := InferFacts(itemWith(PatternShallowAnalysis, "customer sentiment is fine", "vague"))
		require.Len(t, facts, 1)
		assert.Equal(t, "Active users", facts[0].Label)
	})

	t.Run("matching is case-insensitive", func(t *testing.T) {
		facts := InferFacts(itemWith(PatternShallowAnalysis, "ARR looks fine", "vague"))
		require.Len(t, facts, 1)
		assert.Equal(t, "ARR", facts[0].Label)
	})

	t.Run("first matching rule wins, not a union", func(t *testing.T) {
		// "deal" (rule 1) and "revenue" (rule 3) both match; rule order decides.
		facts := InferFacts(itemWith(PatternShallowAnalysis, "the deal hurt revenue", "vague"))
		require.Len(t, facts, 1)
		assert.Equal(t, "Deal conversion rate", facts[0].Label)
	})

	t.Run("lack of quantification falls back to target attainment", func(t *testing.T) {
		facts := InferFacts(itemWith(PatternLackOfQuantification, "things are somewhat better", "vague"))
		require.Len(t, facts, 1)
		assert.Equal(t, "Target attainment", facts[0].Label)
	})

	t.Run("no rule and no fallback yields empty", func(t *testing.T) {
		facts := InferFacts(itemWith(PatternUnclearAction, "we will handle it", "no owner"))
		assert.Empty(t, facts)
	})

	t.Run("returned payload is a copy", func(t *testing.T) {
		item := itemWith(PatternShallowAnalysis, "the deal is stalled", "vague")
		first := InferFacts(item)
		first[0].Label = "mutated"

		second := InferFacts(item)
		assert.Equal(t, "Deal conversion rate", second[0].Label)
	})
}

func TestFormatFact(t *testing.T) {
	t.Run("with previous value and diff", func(t *testing.T) {
		text := FormatFact(Fact{
			Label:         "Deal conversion rate",
			PreviousValue: "25%",
			CurrentValue:  "10%",
			Diff:          "-15pt",
		})
		assert.Equal(t, "Deal conversion rate: 25% → 10% (-15pt)", text)
	})

	t.Run("current value only", func(t *testing.T) {
		text := FormatFact(Fact{Label: "ARR", CurrentValue: "$1.5M"})
		assert.Equal(t, "ARR: $1.5M", text)
	})
}
