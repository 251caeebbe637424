package audit

import (
	"fmt"
	"strings"
)

type DiffDirection string

const (
	DiffUp   DiffDirection = "up"
	DiffDown DiffDirection = "down"
)

// Fact is an illustrative supporting data point surfaced to help resolve
// an ambiguity finding. Produced on demand, never persisted.
type Fact struct {
	Source        string        `json:"source"`
	Icon          string        `json:"icon,omitempty"`
	Label         string        `json:"label"`
	CurrentValue  string        `json:"current_value"`
	PreviousValue string        `json:"previous_value,omitempty"`
	Diff          string        `json:"diff,omitempty"`
	DiffDirection DiffDirection `json:"diff_direction,omitempty"`
}

// factRule pairs a predicate over the item's lower-cased matched text and
// message with a fixed payload. Rules are evaluated in order and the
// first match wins; precedence is the list order, nothing else.
type factRule struct {
	name    string
	matches func(context, message string) bool
	facts   []Fact
}

// The rule set is a placeholder inference layer: keyword heuristics
// standing in for a real lookup against operational data sources. Any
// replacement must keep the contract: one item in, zero or more facts
// out, synchronous, no failure mode.
var factRules = []factRule{
	{
		name: "deal_conversion",
		matches: func(context, message string) bool {
			return strings.Contains(context, "tough") ||
				strings.Contains(context, "deal") ||
				strings.Contains(message, "conversion rate")
		},
		facts: []Fact{
			{
				Source:        "KPI actuals",
				Icon:          "📊",
				Label:         "Deal conversion rate",
				PreviousValue: "25%",
				CurrentValue:  "10%",
				Diff:          "-15pt",
				DiffDirection: DiffDown,
			},
		},
	},
	{
		name: "deal_progress",
		matches: func(context, message string) bool {
			return strings.Contains(context, "on track") ||
				strings.Contains(context, "progress") ||
				strings.Contains(context, "moving")
		},
		facts: []Fact{
			{
				Source:        "CRM (demo)",
				Icon:          "💼",
				Label:         "Deal phase",
				CurrentValue:  "Phase 4 (Selection)",
				PreviousValue: "Phase 3 (Evaluation)",
				Diff:          "+1 phase",
				DiffDirection: DiffUp,
			},
			{
				Source:        "CRM (demo)",
				Icon:          "💼",
				Label:         "Win probability",
				CurrentValue:  "80%",
				PreviousValue: "60%",
				Diff:          "+20pt",
				DiffDirection: DiffUp,
			},
		},
	},
	{
		name: "revenue",
		matches: func(context, message string) bool {
			return strings.Contains(context, "arr") ||
				strings.Contains(context, "revenue") ||
				strings.Contains(context, "growth")
		},
		facts: []Fact{
			{
				Source:        "KPI actuals",
				Icon:          "📊",
				Label:         "ARR",
				PreviousValue: "$1.2M",
				CurrentValue:  "$1.5M",
				Diff:          "+25%",
				DiffDirection: DiffUp,
			},
		},
	},
	{
		name: "churn",
		matches: func(context, message string) bool {
			return strings.Contains(context, "churn") ||
				strings.Contains(context, "cancellation")
		},
		facts: []Fact{
			{
				Source:        "KPI actuals",
				Icon:          "📊",
				Label:         "Churn rate",
				PreviousValue: "5.2%",
				CurrentValue:  "3.8%",
				Diff:          "-1.4pt",
				DiffDirection: DiffUp, // lower churn is an improvement
			},
		},
	},
	{
		name: "active_users",
		matches: func(context, message string) bool {
			return strings.Contains(context, "user") ||
				strings.Contains(context, "customer") ||
				strings.Contains(context, "active")
		},
		facts: []Fact{
			{
				Source:        "KPI actuals",
				Icon:          "📊",
				Label:         "Active users",
				PreviousValue: "1,200",
				CurrentValue:  "1,450",
				Diff:          "+20.8%",
				DiffDirection: DiffUp,
			},
		},
	},
}

// Fallback when no keyword rule matches a lack-of-quantification item:
// offer a generic attainment metric.
var quantificationFallback = []Fact{
	{
		Source:        "KPI actuals",
		Icon:          "📊",
		Label:         "Target attainment",
		CurrentValue:  "85%",
		PreviousValue: "90%",
		Diff:          "-5pt",
		DiffDirection: DiffDown,
	},
}

// InferFacts returns the payload of the first matching rule, the
// quantification fallback, or nothing. Stateless and synchronous.
func InferFacts(item AuditItem) []Fact {
	context := strings.ToLower(item.Location.Text)
	message := strings.ToLower(item.Message)

	for _, rule := range factRules {
		if rule.matches(context, message) {
			return append([]Fact(nil), rule.facts...)
		}
	}

	if item.Pattern == PatternLackOfQuantification {
		return append([]Fact(nil), quantificationFallback...)
	}

	return []Fact{}
}

// FormatFact renders a fact as copyable text, e.g.
// "Deal conversion rate: 25% → 10% (-15pt)".
func FormatFact(fact Fact) string {
	if fact.PreviousValue != "" && fact.Diff != "" {
		return fmt.Sprintf("%s: %s → %s (%s)", fact.Label, fact.PreviousValue, fact.CurrentValue, fact.Diff)
	}
	return fmt.Sprintf("%s: %s", fact.Label, fact.CurrentValue)
}
