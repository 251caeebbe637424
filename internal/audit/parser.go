package audit

import (
	"encoding/json"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/reportaudit/backend/pkg/logger"
)

// Matches a fenced code block, optionally tagged with "json".
var fencedBlockRe = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

// ParseDetectionResponse extracts findings from the model's free-form
// reply. It never fails: an undecodable or non-array payload yields an
// empty slice, and individual malformed elements are dropped without
// failing the batch.
func ParseDetectionResponse(response string) []Finding {
	payload := response
	if m := fencedBlockRe.FindStringSubmatch(response); m != nil {
		payload = strings.TrimSpace(m[1])
	}

	var decoded interface{}
	if err := json.Unmarshal([]byte(payload), &decoded); err != nil {
		logger.Warn("Failed to decode detection response",
			zap.Error(err),
			zap.Int("payload_length", len(payload)),
		)
		return nil
	}

	elements, ok := decoded.([]interface{})
	if !ok {
		logger.Warn("Detection payload is not an array")
		return nil
	}

	findings := make([]Finding, 0, len(elements))
	dropped := 0

	for _, element := range elements {
		finding, ok := toFinding(element)
		if !ok {
			dropped++
			continue
		}
		findings = append(findings, finding)
	}

	if dropped > 0 {
		logger.Warn("Dropped malformed detection elements",
			zap.Int("dropped", dropped),
			zap.Int("kept", len(findings)),
		)
	}

	return findings
}

// toFinding validates one array element: all seven fields must be present
// with the expected primitive types, and pattern must be one of the five
// known kinds. Anything else is rejected.
func toFinding(element interface{}) (Finding, bool) {
	obj, ok := element.(map[string]interface{})
	if !ok {
		return Finding{}, false
	}

	pattern, ok := stringField(obj, "pattern")
	if !ok || !KnownPattern(Pattern(pattern)) {
		return Finding{}, false
	}

	message, ok := stringField(obj, "message")
	if !ok {
		return Finding{}, false
	}
	rationale, ok := stringField(obj, "rationale")
	if !ok {
		return Finding{}, false
	}
	suggestion, ok := stringField(obj, "suggestion")
	if !ok {
		return Finding{}, false
	}
	matchedText, ok := stringField(obj, "matchedText")
	if !ok {
		return Finding{}, false
	}

	startIndex, ok := numberField(obj, "startIndex")
	if !ok {
		return Finding{}, false
	}
	endIndex, ok := numberField(obj, "endIndex")
	if !ok {
		return Finding{}, false
	}

	return Finding{
		Pattern:     Pattern(pattern),
		Message:     message,
		Rationale:   rationale,
		Suggestion:  suggestion,
		StartIndex:  startIndex,
		EndIndex:    endIndex,
		MatchedText: matchedText,
	}, true
}

func stringField(obj map[string]interface{}, key string) (string, bool) {
	value, ok := obj[key].(string)
	return value, ok
}

func numberField(obj map[string]interface{}, key string) (int, bool) {
	value, ok := obj[key].(float64)
	if !ok {
		return 0, false
	}
	return int(value), true
}
