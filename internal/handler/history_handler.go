package handler

import (
	"skill-assess/internal/middleware"
	"skill-assess/internal/service"

	"github.com/gofiber/fiber/v2"
)

// HistoryHandler serves stored evaluations and item aggregates
type HistoryHandler struct {
	service service.HistoryService
}

func NewHistoryHandler(service service.HistoryService) *HistoryHandler {
	return &HistoryHandler{service: service}
}

// GetLearnerEvaluations godoc
// @Summary List a learner's evaluations
// @Description Newest first
// @Tags history
// @Produce json
// @Param name path string true "Learner name"
// @Param limit query int false "Maximum number of evaluations (1-100)"
// @Success 200 {object} dto.EvaluationListResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /learners/{name}/evaluations [get]
func (h *HistoryHandler) GetLearnerEvaluations(c *fiber.Ctx) error {
	learner, ok := c.Locals(middleware.LocalLearner).(string)
	if !ok {
		learner = c.Params("name")
	}
	limit, _ := c.Locals(middleware.LocalLimit).(int)

	resp, err := h.service.LearnerEvaluations(c.UserContext(), learner, limit)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// GetItemStats godoc
// @Summary Get item statistics
// @Tags history
// @Produce json
// @Param name path string true "Item name"
// @Success 200 {object} dto.ItemStatsResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /items/{name}/stats [get]
func (h *HistoryHandler) GetItemStats(c *fiber.Ctx) error {
	resp, err := h.service.ItemStats(c.UserContext(), c.Params("name"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
