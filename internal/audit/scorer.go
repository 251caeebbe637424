package audit

import (
	"math"
	"time"
)

// Severity weights: the base penalty each open item contributes.
var severityWeights = map[Severity]float64{
	SeverityCritical: 15,
	SeverityWarning:  8,
	SeverityInfo:     3,
}

// Pattern multipliers applied on top of the severity weight. Mixing
// opinions with facts carries the heaviest multiplier.
var patternMultipliers = map[Pattern]float64{
	PatternShallowAnalysis:          1.2,
	PatternMissingCoverage:          1.1,
	PatternLackOfQuantification:     1.0,
	PatternUnclearAction:            1.0,
	PatternFactInterpretationMixing: 1.3,
}

// Penalty cap so the score never goes below zero from accumulation alone.
const maxPenalty = 100

// CalculateScore maps a set of audit items to a 0-100 quality score.
// Only open items accrue penalty; resolved and dismissed items are
// ignored. Pure and order-independent: the same set always yields the
// same score.
func CalculateScore(items []AuditItem) int {
	var totalPenalty float64

	for _, item := range items {
		if item.Status != StatusOpen {
			continue
		}
		totalPenalty += severityWeights[item.Severity] * patternMultipliers[item.Pattern]
	}

	if totalPenalty > maxPenalty {
		totalPenalty = maxPenalty
	}

	score := math.Max(0, math.Min(100, 100-totalPenalty))

	return int(math.Round(score))
}

// CountByPattern counts all items per pattern regardless of status: the
// counts report cumulative incidence, not current risk.
func CountByPattern(items []AuditItem) map[Pattern]int {
	counts := map[Pattern]int{
		PatternShallowAnalysis:          0,
		PatternMissingCoverage:          0,
		PatternLackOfQuantification:     0,
		PatternUnclearAction:            0,
		PatternFactInterpretationMixing: 0,
	}

	for _, item := range items {
		counts[item.Pattern]++
	}

	return counts
}

// CountBySeverity counts all items per severity regardless of status.
func CountBySeverity(items []AuditItem) map[Severity]int {
	counts := map[Severity]int{
		SeverityCritical: 0,
		SeverityWarning:  0,
		SeverityInfo:     0,
	}

	for _, item := range items {
		counts[item.Severity]++
	}

	return counts
}

// BuildResult assembles a completed AuditResult snapshot from items.
func BuildResult(reportID string, items []AuditItem) AuditResult {
	if items == nil {
		items = []AuditItem{}
	}
	return AuditResult{
		ReportID:      reportID,
		Items:         items,
		Score:         CalculateScore(items),
		PatternCounts: CountByPattern(items),
		Status:        ResultCompleted,
		AuditedAt:     time.Now(),
	}
}

// FailedResult is the fail-closed outcome: no items, score zero, status
// failed. Visibly distinct from a clean report.
func FailedResult(reportID string) AuditResult {
	return AuditResult{
		ReportID:      reportID,
		Items:         []AuditItem{},
		Score:         0,
		PatternCounts: CountByPattern(nil),
		Status:        ResultFailed,
		AuditedAt:     time.Now(),
	}
}

type ScoreClass string

const (
	ScoreHealthy  ScoreClass = "healthy"
	ScoreWarning  ScoreClass = "warning"
	ScoreCritical ScoreClass = "critical"
)

// ScoreStatus classifies a score against caller-supplied thresholds.
func ScoreStatus(score int, thresholds ScoreThresholds) ScoreClass {
	if score >= thresholds.Good {
		return ScoreHealthy
	}
	if score >= thresholds.Acceptable {
		return ScoreWarning
	}
	return ScoreCritical
}
