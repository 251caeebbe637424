package audit

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/reportaudit/backend/internal/history"
	"github.com/reportaudit/backend/internal/llm"
	"github.com/reportaudit/backend/internal/metrics"
	"github.com/reportaudit/backend/pkg/logger"
)

// Reports shorter than this are trivially clean for quick validation.
const minValidateLength = 50

// Token budget for one detection call.
const detectionMaxTokens = 4096

// Completer is the external model collaborator: one request/response
// call, no retry. The pipeline treats it as a black box.
type Completer interface {
	Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error)
}

// RunRecorder persists one summary row per invocation. Optional.
type RunRecorder interface {
	RecordRun(ctx context.Context, reportID string, score int, status ResultStatus, itemCount, latencyMS int) error
}

type QuickValidation struct {
	HasIssues  bool `json:"has_issues"`
	IssueCount int  `json:"issue_count"`
}

// Pipeline sequences prompt building, the external call, parsing, item
// promotion, and scoring. Analyze always returns a result and never an
// error: transport failures surface as a failed result, score zero.
type Pipeline struct {
	completer Completer
	tracker   *Tracker
	history   history.Store
	runs      RunRecorder
}

func NewPipeline(completer Completer, tracker *Tracker, hist history.Store, runs RunRecorder) *Pipeline {
	return &Pipeline{
		completer: completer,
		tracker:   tracker,
		history:   hist,
		runs:      runs,
	}
}

// Analyze audits one report. Three terminal shapes:
//   - blank text: completed, no items, score 100, no external call
//   - model reply obtained: completed, with whatever findings survived parsing
//   - no model reply at all: failed, no items, score 0
//
// A malformed payload inside a successful reply degrades to zero findings
// but still completes; only a missing reply fails.
func (p *Pipeline) Analyze(ctx context.Context, text string, reqCtx *Context) AuditResult {
	startTime := time.Now()
	reportID := uuid.New().String()

	if strings.TrimSpace(text) == "" {
		result := BuildResult(reportID, nil)
		metrics.AuditsTotal.WithLabelValues(string(result.Status)).Inc()
		p.recordRun(ctx, result, startTime)
		return result
	}

	logger.Info("Analyzing report",
		zap.String("report_id", reportID),
		zap.Int("text_length", len(text)),
	)

	userPrompt := BuildDetectionPrompt(DetectionRequest{Text: text, Context: reqCtx})

	resp, err := p.completer.Complete(ctx, llm.CompletionRequest{
		SystemPrompt: DetectionSystemPrompt,
		UserPrompt:   userPrompt,
		MaxTokens:    detectionMaxTokens,
	})
	if err != nil {
		logger.Error("Audit analysis failed",
			zap.String("report_id", reportID),
			zap.Error(err),
		)
		result := FailedResult(reportID)
		metrics.AuditsTotal.WithLabelValues(string(result.Status)).Inc()
		p.recordRun(ctx, result, startTime)
		return result
	}

	metrics.LLMTokensUsed.WithLabelValues("prompt").Add(float64(resp.Usage.PromptTokens))
	metrics.LLMTokensUsed.WithLabelValues("completion").Add(float64(resp.Usage.CompletionTokens))

	findings := ParseDetectionResponse(resp.Content)
	items := NewItems(findings, time.Now())
	p.tracker.Register(items)

	result := BuildResult(reportID, items)

	for _, item := range items {
		metrics.FindingsDetected.WithLabelValues(string(item.Pattern)).Inc()
	}
	metrics.AuditsTotal.WithLabelValues(string(result.Status)).Inc()
	metrics.AuditScore.Observe(float64(result.Score))
	metrics.AuditDuration.Observe(time.Since(startTime).Seconds())

	if p.history != nil {
		if err := p.history.Record(ctx, result.Score); err != nil {
			logger.Warn("Failed to record score history", zap.Error(err))
		}
	}
	p.recordRun(ctx, result, startTime)

	logger.Info("Report analyzed",
		zap.String("report_id", reportID),
		zap.Int("score", result.Score),
		zap.Int("items", len(items)),
	)

	return result
}

// QuickValidate is a lightweight issue check. Text under 50 characters
// is trivially clean and skips analysis entirely.
func (p *Pipeline) QuickValidate(ctx context.Context, text string) QuickValidation {
	if strings.TrimSpace(text) == "" || utf8.RuneCountInString(text) < minValidateLength {
		return QuickValidation{}
	}

	result := p.Analyze(ctx, text, nil)

	return QuickValidation{
		HasIssues:  len(result.Items) > 0,
		IssueCount: len(result.Items),
	}
}

// Facts infers supporting facts for a tracked item. Unknown ids yield an
// empty slice.
func (p *Pipeline) Facts(itemID string) []Fact {
	item, ok := p.tracker.Get(itemID)
	if !ok {
		return []Fact{}
	}
	return InferFacts(item)
}

func (p *Pipeline) Tracker() *Tracker {
	return p.tracker
}

func (p *Pipeline) recordRun(ctx context.Context, result AuditResult, startTime time.Time) {
	if p.runs == nil {
		return
	}

	latency := int(time.Since(startTime).Milliseconds())
	err := p.runs.RecordRun(ctx, result.ReportID, result.Score, result.Status, len(result.Items), latency)
	if err != nil {
		logger.Warn("Failed to record audit run", zap.Error(err))
	}
}
