package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/reportaudit/backend/internal/audit"
	"github.com/reportaudit/backend/internal/cache/redis"
	"github.com/reportaudit/backend/internal/metrics"
	"github.com/reportaudit/backend/pkg/logger"
	"github.com/reportaudit/backend/pkg/utils"
)

type AuditHandler struct {
	pipeline   *audit.Pipeline
	cache      *redis.Client // nil when redis is disabled
	thresholds audit.ScoreThresholds
}

func NewAuditHandler(pipeline *audit.Pipeline, cache *redis.Client, thresholds audit.ScoreThresholds) *AuditHandler {
	return &AuditHandler{
		pipeline:   pipeline,
		cache:      cache,
		thresholds: thresholds,
	}
}

type analyzeRequest struct {
	Text    string         `json:"text"`
	Context *audit.Context `json:"context"`
}

func (h *AuditHandler) HandleAnalyze(c *fiber.Ctx) error {
	var req analyzeRequest

	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Text == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Text is required",
		})
	}

	result := h.pipeline.Analyze(c.Context(), req.Text, req.Context)

	return c.JSON(fiber.Map{
		"result":       result,
		"score_status": audit.ScoreStatus(result.Score, h.thresholds),
	})
}

type quickValidateRequest struct {
	Text string `json:"text"`
}

func (h *AuditHandler) HandleQuickValidate(c *fiber.Ctx) error {
	var req quickValidateRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	textHash := utils.HashString(req.Text)

	if h.cache != nil {
		var cached audit.QuickValidation
		hit, err := h.cache.GetValidation(c.Context(), textHash, &cached)
		if err != nil {
			logger.Warn("Validation cache lookup failed", zap.Error(err))
		}
		if hit {
			metrics.CacheHits.WithLabelValues("validation").Inc()
			return c.JSON(cached)
		}
		metrics.CacheMisses.WithLabelValues("validation").Inc()
	}

	validation := h.pipeline.QuickValidate(c.Context(), req.Text)

	if h.cache != nil {
		if err := h.cache.SetValidation(c.Context(), textHash, validation); err != nil {
			logger.Warn("Failed to cache validation", zap.Error(err))
		}
	}

	return c.JSON(validation)
}

func (h *AuditHandler) HandleResolve(c *fiber.Ctx) error {
	itemID := c.Params("id")

	updated := h.pipeline.Tracker().Resolve(itemID)
	if updated {
		metrics.ItemTransitions.WithLabelValues("resolve").Inc()
	}

	return c.JSON(fiber.Map{
		"item_id": itemID,
		"updated": updated,
	})
}

type dismissRequest struct {
	Reason string `json:"reason"`
}

func (h *AuditHandler) HandleDismiss(c *fiber.Ctx) error {
	itemID := c.Params("id")

	var req dismissRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	updated := h.pipeline.Tracker().Dismiss(itemID, req.Reason)
	if updated {
		metrics.ItemTransitions.WithLabelValues("dismiss").Inc()
	}

	return c.JSON(fiber.Map{
		"item_id": itemID,
		"updated": updated,
	})
}

func (h *AuditHandler) HandleFacts(c *fiber.Ctx) error {
	itemID := c.Params("id")

	facts := h.pipeline.Facts(itemID)

	formatted := make([]string, 0, len(facts))
	for _, fact := range facts {
		formatted = append(formatted, audit.FormatFact(fact))
	}

	return c.JSON(fiber.Map{
		"item_id":   itemID,
		"facts":     facts,
		"formatted": formatted,
	})
}
