package audit

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openItem(pattern Pattern) AuditItem {
	return NewItem(Finding{
		Pattern:     pattern,
		Message:     "msg",
		Rationale:   "why",
		Suggestion:  "ask",
		StartIndex:  0,
		EndIndex:    10,
		MatchedText: "some text",
	}, time.Now())
}

func TestCalculateScore(t *testing.T) {
	t.Run("empty set scores 100", func(t *testing.T) {
		assert.Equal(t, 100, CalculateScore(nil))
		assert.Equal(t, 100, CalculateScore([]AuditItem{}))
	})

	t.Run("all resolved or dismissed scores 100", func(t *testing.T) {
		resolved := openItem(PatternShallowAnalysis)
		resolved.Status = StatusResolved
		dismissed := openItem(PatternFactInterpretationMixing)
		dismissed.Status = StatusDismissed
		dismissed.DismissReason = "not applicable"

		assert.Equal(t, 100, CalculateScore([]AuditItem{resolved, dismissed}))
	})

	t.Run("one critical shallow_analysis scores 82", func(t *testing.T) {
		// 15 * 1.2 = 18 penalty
		assert.Equal(t, 82, CalculateScore([]AuditItem{openItem(PatternShallowAnalysis)}))
	})

	t.Run("critical shallow_analysis plus warning lack_of_quantification scores 74", func(t *testing.T) {
		// 18 + 8 = 26 penalty
		items := []AuditItem{
			openItem(PatternShallowAnalysis),
			openItem(PatternLackOfQuantification),
		}
		assert.Equal(t, 74, CalculateScore(items))
	})

	t.Run("ten critical fact_interpretation_mixing items cap at zero", func(t *testing.T) {
		// raw penalty 10 * 15 * 1.3 = 195, capped at 100
		var items []AuditItem
		for i := 0; i < 10; i++ {
			items = append(items, openItem(PatternFactInterpretationMixing))
		}
		assert.Equal(t, 0, CalculateScore(items))
	})

	t.Run("score stays within bounds and ignores order", func(t *testing.T) {
		patterns := []Pattern{
			PatternShallowAnalysis,
			PatternMissingCoverage,
			PatternLackOfQuantification,
			PatternUnclearAction,
			PatternFactInterpretationMixing,
		}

		rng := rand.New(rand.NewSource(42))
		for trial := 0; trial < 20; trial++ {
			var items []AuditItem
			for i := 0; i < rng.Intn(15); i++ {
				items = append(items, openItem(patterns[rng.Intn(len(patterns))]))
			}

			score := CalculateScore(items)
			assert.GreaterOrEqual(t, score, 0)
			assert.LessOrEqual(t, score, 100)

			shuffled := append([]AuditItem(nil), items...)
			rng.Shuffle(len(shuffled), func(i, j int) {
				shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
			})
			assert.Equal(t, score, CalculateScore(shuffled), "score must be invariant under reordering")
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		items := []AuditItem{
			openItem(PatternMissingCoverage),
			openItem(PatternUnclearAction),
		}
		first := CalculateScore(items)
		assert.Equal(t, first, CalculateScore(items))
	})
}

func TestCountByPattern(t *testing.T) {
	t.Run("counts every status and sums to item count", func(t *testing.T) {
		resolved := openItem(PatternShallowAnalysis)
		resolved.Status = StatusResolved

		items := []AuditItem{
			resolved,
			openItem(PatternShallowAnalysis),
			openItem(PatternLackOfQuantification),
		}

		counts := CountByPattern(items)
		assert.Equal(t, 2, counts[PatternShallowAnalysis])
		assert.Equal(t, 1, counts[PatternLackOfQuantification])

		total := 0
		for _, n := range counts {
			total += n
		}
		assert.Equal(t, len(items), total)
	})

	t.Run("all five patterns present even when empty", func(t *testing.T) {
		counts := CountByPattern(nil)
		require.Len(t, counts, 5)
		for pattern, n := range counts {
			assert.Zero(t, n, "pattern %s", pattern)
		}
	})
}

func TestCountBySeverity(t *testing.T) {
	dismissed := openItem(PatternFactInterpretationMixing)
	dismissed.Status = StatusDismissed

	items := []AuditItem{
		dismissed,
		openItem(PatternLackOfQuantification),
		openItem(PatternUnclearAction),
	}

	counts := CountBySeverity(items)
	assert.Equal(t, 1, counts[SeverityCritical])
	assert.Equal(t, 2, counts[SeverityWarning])
	assert.Equal(t, 0, counts[SeverityInfo])
}

func TestBuildResult(t *testing.T) {
	t.Run("completed snapshot", func(t *testing.T) {
		items := []AuditItem{openItem(PatternShallowAnalysis)}
		result := BuildResult("report-1", items)

		assert.Equal(t, "report-1", result.ReportID)
		assert.Equal(t, ResultCompleted, result.Status)
		assert.Equal(t, 82, result.Score)
		assert.Len(t, result.Items, 1)
		assert.False(t, result.AuditedAt.IsZero())
	})

	t.Run("nil items become empty slice", func(t *testing.T) {
		result := BuildResult("report-2", nil)
		require.NotNil(t, result.Items)
		assert.Empty(t, result.Items)
		assert.Equal(t, 100, result.Score)
	})
}

func TestFailedResult(t *testing.T) {
	result := FailedResult("report-3")

	assert.Equal(t, ResultFailed, result.Status)
	assert.Equal(t, 0, result.Score)
	assert.Empty(t, result.Items)
	for pattern, n := range result.PatternCounts {
		assert.Zero(t, n, "pattern %s", pattern)
	}
}

func TestScoreStatus(t *testing.T) {
	tests := []struct {
		name  string
		score int
		want  ScoreClass
	}{
		{"at good threshold", 80, ScoreHealthy},
		{"above good threshold", 95, ScoreHealthy},
		{"at acceptable threshold", 60, ScoreWarning},
		{"between thresholds", 79, ScoreWarning},
		{"below acceptable", 59, ScoreCritical},
		{"zero", 0, ScoreCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ScoreStatus(tt.score, DefaultScoreThresholds))
		})
	}

	t.Run("caller-supplied thresholds", func(t *testing.T) {
		custom := ScoreThresholds{Good: 90, Acceptable: 70}
		assert.Equal(t, ScoreWarning, ScoreStatus(85, custom))
		assert.Equal(t, ScoreCritical, ScoreStatus(65, custom))
	})
}
