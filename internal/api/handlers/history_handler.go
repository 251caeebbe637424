package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/reportaudit/backend/internal/history"
	"github.com/reportaudit/backend/internal/storage/sqlite"
	"github.com/reportaudit/backend/pkg/logger"
)

type HistoryHandler struct {
	store   history.Store
	storage *sqlite.Client
}

func NewHistoryHandler(store history.Store, storage *sqlite.Client) *HistoryHandler {
	return &HistoryHandler{
		store:   store,
		storage: storage,
	}
}

func (h *HistoryHandler) HandleScores(c *fiber.Ctx) error {
	entries, err := h.store.Entries(c.Context())
	if err != nil {
		logger.Error("Failed to load score history", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load score history",
		})
	}

	var previous *history.Entry
	if len(entries) > 1 {
		previous = &entries[len(entries)-2]
	}

	resp := fiber.Map{
		"entries": entries,
	}

	if len(entries) > 0 {
		latest := entries[len(entries)-1]
		resp["latest"] = latest
		if diff, ok := history.ScoreDiff(latest.Score, previous); ok {
			resp["diff"] = diff
		}
	}

	return c.JSON(resp)
}

func (h *HistoryHandler) HandleRuns(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	runs, err := h.storage.GetRecentRuns(limit)
	if err != nil {
		logger.Error("Failed to load audit runs", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load audit runs",
		})
	}

	if runs == nil {
		runs = []sqlite.AuditRun{}
	}

	return c.JSON(fiber.Map{
		"runs": runs,
	})
}
