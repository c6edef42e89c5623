package handler

import (
	"fmt"

	"skill-assess/internal/domain"
	"skill-assess/internal/dto"
	"skill-assess/internal/logger"
	"skill-assess/internal/middleware"
	"skill-assess/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// SessionHandler handles assessment session HTTP requests
type SessionHandler struct {
	service service.SessionService
}

// NewSessionHandler creates a new SessionHandler instance
func NewSessionHandler(service service.SessionService) *SessionHandler {
	return &SessionHandler{service: service}
}

// sessionID returns the validated :id parameter, falling back to the raw one.
func sessionID(c *fiber.Ctx) string {
	if id, ok := c.Locals(middleware.LocalSessionID).(string); ok {
		return id
	}
	return c.Params("id")
}

// ListItems godoc
// @Summary List assessable items
// @Description Returns every item of the question bank. With a learner, completed items are flagged.
// @Tags items
// @Produce json
// @Param learner query string false "Learner name"
// @Success 200 {object} dto.ItemListResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Router /items [get]
func (h *SessionHandler) ListItems(c *fiber.Ctx) error {
	learner, _ := c.Locals(middleware.LocalLearner).(string)
	resp, err := h.service.ListItems(c.UserContext(), learner)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// StartSession godoc
// @Summary Start a session
// @Description Opens a session of one item for a learner
// @Tags sessions
// @Accept json
// @Produce json
// @Param request body dto.StartSessionRequest true "Learner and item"
// @Success 201 {object} dto.SessionResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /sessions [post]
func (h *SessionHandler) StartSession(c *fiber.Ctx) error {
	var req dto.StartSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	resp, err := h.service.StartSession(c.UserContext(), &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetSession godoc
// @Summary Get a session
// @Description Returns the state of a session, with its summary once completed
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.SessionResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /sessions/{id} [get]
func (h *SessionHandler) GetSession(c *fiber.Ctx) error {
	resp, err := h.service.GetSession(c.UserContext(), sessionID(c))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// GetCurrentQuestion godoc
// @Summary Get the current question
// @Description Returns the question awaiting an answer. Expected answers are never included.
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.QuestionView
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /sessions/{id}/question [get]
func (h *SessionHandler) GetCurrentQuestion(c *fiber.Ctx) error {
	resp, err := h.service.CurrentQuestion(c.UserContext(), sessionID(c))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// SubmitAnswer godoc
// @Summary Submit an answer
// @Description Records the answer to the current question, replacing any earlier one
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body dto.SubmitAnswerRequest true "Answer"
// @Success 200 {object} dto.SessionResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /sessions/{id}/answers [post]
func (h *SessionHandler) SubmitAnswer(c *fiber.Ctx) error {
	var req dto.SubmitAnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	resp, err := h.service.SubmitAnswer(c.UserContext(), sessionID(c), &req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Advance godoc
// @Summary Advance to the next question
// @Description Moves to the next question; on the last question the session is completed and scored
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.SessionResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /sessions/{id}/advance [post]
func (h *SessionHandler) Advance(c *fiber.Ctx) error {
	resp, err := h.service.Advance(c.UserContext(), sessionID(c))
	if err != nil {
		return err
	}
	if resp.PersistenceError != "" {
		logger.Get().Warn("Session completed without being stored",
			zap.String("sessionID", resp.SessionID), zap.String("error", resp.PersistenceError))
	}
	return c.JSON(resp)
}

// Retreat godoc
// @Summary Go back one question
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.SessionResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /sessions/{id}/retreat [post]
func (h *SessionHandler) Retreat(c *fiber.Ctx) error {
	resp, err := h.service.Retreat(c.UserContext(), sessionID(c))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Restart godoc
// @Summary Restart a completed session
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.SessionResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /sessions/{id}/restart [post]
func (h *SessionHandler) Restart(c *fiber.Ctx) error {
	resp, err := h.service.Restart(c.UserContext(), sessionID(c))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Abandon godoc
// @Summary Abandon a session
// @Tags sessions
// @Param id path string true "Session ID"
// @Success 204
// @Failure 404 {object} middleware.ErrorResponse
// @Router /sessions/{id} [delete]
func (h *SessionHandler) Abandon(c *fiber.Ctx) error {
	if err := h.service.Abandon(c.UserContext(), sessionID(c)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetSummary godoc
// @Summary Get the evaluation summary
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} domain.EvaluationSummary
// @Failure 409 {object} middleware.ErrorResponse
// @Router /sessions/{id}/summary [get]
func (h *SessionHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.service.Summary(c.UserContext(), sessionID(c))
	if err != nil {
		return err
	}
	return c.JSON(summary)
}

// DownloadSummary godoc
// @Summary Download the evaluation summary as a spreadsheet
// @Tags sessions
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path string true "Session ID"
// @Success 200 {file} file
// @Failure 409 {object} middleware.ErrorResponse
// @Router /sessions/{id}/summary.xlsx [get]
func (h *SessionHandler) DownloadSummary(c *fiber.Ctx) error {
	id := sessionID(c)
	data, err := h.service.SummaryWorkbook(c.UserContext(), id)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="evaluation-%s.xlsx"`, id))
	return c.Send(data)
}
