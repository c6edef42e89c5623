package handler

import (
	"skill-assess/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// Handlers groups every HTTP handler of the API.
type Handlers struct {
	Session *SessionHandler
	History *HistoryHandler
	Health  *HealthHandler
}

// RegisterRoutes mounts the API under api. Item and learner names in paths are
// URL-escaped; the app must be created with UnescapePath.
func RegisterRoutes(api fiber.Router, h Handlers, vm *middleware.ValidationMiddleware) {
	api.Get("/health", h.Health.Health)

	api.Get("/items", vm.ValidateLearner(), h.Session.ListItems)
	api.Get("/items/:name/stats", h.History.GetItemStats)

	validID := vm.ValidateSessionID()
	api.Post("/sessions", h.Session.StartSession)
	api.Get("/sessions/:id", validID, h.Session.GetSession)
	api.Delete("/sessions/:id", validID, h.Session.Abandon)
	api.Get("/sessions/:id/question", validID, h.Session.GetCurrentQuestion)
	api.Post("/sessions/:id/answers", validID, h.Session.SubmitAnswer)
	api.Post("/sessions/:id/advance", validID, h.Session.Advance)
	api.Post("/sessions/:id/retreat", validID, h.Session.Retreat)
	api.Post("/sessions/:id/restart", validID, h.Session.Restart)
	api.Get("/sessions/:id/summary", validID, h.Session.GetSummary)
	api.Get("/sessions/:id/summary.xlsx", validID, h.Session.DownloadSummary)

	api.Get("/learners/:name/evaluations", vm.ValidateLearner(), vm.ValidateLimit(), h.History.GetLearnerEvaluations)
}
