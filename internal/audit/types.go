package audit

import (
	"time"

	"github.com/google/uuid"
)

// Pattern is one of the five ambiguity categories an auditor looks for in
// a status report.
type Pattern string

const (
	PatternShallowAnalysis          Pattern = "shallow_analysis"
	PatternMissingCoverage          Pattern = "missing_coverage"
	PatternLackOfQuantification     Pattern = "lack_of_quantification"
	PatternUnclearAction            Pattern = "unclear_action"
	PatternFactInterpretationMixing Pattern = "fact_interpretation_mixing"
)

type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

type ItemStatus string

const (
	StatusOpen      ItemStatus = "open"
	StatusResolved  ItemStatus = "resolved"
	StatusDismissed ItemStatus = "dismissed"
)

type ResultStatus string

const (
	ResultCompleted ResultStatus = "completed"
	ResultFailed    ResultStatus = "failed"
)

// PatternSeverity is the fixed pattern-to-severity mapping. Severity is
// always derived through this table, never stored independently.
var PatternSeverity = map[Pattern]Severity{
	PatternShallowAnalysis:          SeverityCritical,
	PatternMissingCoverage:          SeverityCritical,
	PatternLackOfQuantification:     SeverityWarning,
	PatternUnclearAction:            SeverityWarning,
	PatternFactInterpretationMixing: SeverityCritical,
}

// PatternLabels holds display names for the presentation layer.
var PatternLabels = map[Pattern]string{
	PatternShallowAnalysis:          "Shallow Analysis",
	PatternMissingCoverage:          "Missing Coverage",
	PatternLackOfQuantification:     "Lack of Quantification",
	PatternUnclearAction:            "Unclear Action",
	PatternFactInterpretationMixing: "Fact/Interpretation Mixing",
}

// KnownPattern reports whether p is one of the five closed pattern kinds.
func KnownPattern(p Pattern) bool {
	_, ok := PatternSeverity[p]
	return ok
}

// Context carries optional metadata about the report under analysis.
type Context struct {
	KPIName      string `json:"kpi_name,omitempty"`
	ReporterRole string `json:"reporter_role,omitempty"`
	ReportPeriod string `json:"report_period,omitempty"`
}

// DetectionRequest is one analysis invocation: the report text plus
// optional context. Not persisted.
type DetectionRequest struct {
	Text    string
	Context *Context
}

// Finding is one raw pattern match as reported by the model. The offsets
// are carried opaquely; nothing checks them against the source text.
type Finding struct {
	Pattern     Pattern
	Message     string
	Rationale   string
	Suggestion  string
	StartIndex  int
	EndIndex    int
	MatchedText string
}

// TextRange locates an item inside the source report.
type TextRange struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text"`
}

// AuditItem is a Finding promoted into the tracked domain. Created once
// per pipeline run; only lifecycle transitions mutate it afterwards.
type AuditItem struct {
	ID            string     `json:"id"`
	Pattern       Pattern    `json:"pattern"`
	Severity      Severity   `json:"severity"`
	Message       string     `json:"message"`
	Rationale     string     `json:"rationale"`
	Suggestion    string     `json:"suggestion"`
	Location      TextRange  `json:"location"`
	Status        ItemStatus `json:"status"`
	DismissReason string     `json:"dismiss_reason,omitempty"`
	DetectedAt    time.Time  `json:"detected_at"`
}

// AuditResult is the immutable snapshot of one invocation. Rescoring after
// lifecycle changes means recomputing from the current items, not mutating
// an existing result.
type AuditResult struct {
	ReportID      string          `json:"report_id"`
	Items         []AuditItem     `json:"items"`
	Score         int             `json:"score"`
	PatternCounts map[Pattern]int `json:"pattern_counts"`
	Status        ResultStatus    `json:"status"`
	AuditedAt     time.Time       `json:"audited_at"`
}

// ScoreThresholds are the classification boundaries for ScoreStatus.
type ScoreThresholds struct {
	Good       int `json:"good"`
	Acceptable int `json:"acceptable"`
}

var DefaultScoreThresholds = ScoreThresholds{Good: 80, Acceptable: 60}

// NewItem promotes a Finding into an open AuditItem with fresh identity.
func NewItem(f Finding, detectedAt time.Time) AuditItem {
	return AuditItem{
		ID:         uuid.New().String(),
		Pattern:    f.Pattern,
		Severity:   PatternSeverity[f.Pattern],
		Message:    f.Message,
		Rationale:  f.Rationale,
		Suggestion: f.Suggestion,
		Location: TextRange{
			Start: f.StartIndex,
			End:   f.EndIndex,
			Text:  f.MatchedText,
		},
		Status:     StatusOpen,
		DetectedAt: detectedAt,
	}
}

// NewItems promotes findings 1:1, preserving order.
func NewItems(findings []Finding, detectedAt time.Time) []AuditItem {
	items := make([]AuditItem, 0, len(findings))
	for _, f := range findings {
		items = append(items, NewItem(f, detectedAt))
	}
	return items
}
