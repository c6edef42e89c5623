package middleware

import (
	"skill-assess/internal/domain"
	"skill-assess/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// Locals keys set by the validation middleware.
const (
	LocalSessionID = "validated_session_id"
	LocalLearner   = "validated_learner"
	LocalLimit     = "validated_limit"
)

const maxLimit = 100

// ValidationMiddleware provides request validation middleware
type ValidationMiddleware struct {
	validator *validation.Validator
}

// NewValidationMiddleware creates a new validation middleware instance
func NewValidationMiddleware(v *validation.Validator) *ValidationMiddleware {
	if v == nil {
		v = validation.NewValidator()
	}
	return &ValidationMiddleware{validator: v}
}

// ValidateSessionID validates the :id path parameter
func (vm *ValidationMiddleware) ValidateSessionID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if errs := vm.validator.ValidateSessionID(id); len(errs) > 0 {
			return errs
		}
		c.Locals(LocalSessionID, id)
		return c.Next()
	}
}

// ValidateLearner validates the learner name from the :name path parameter or the
// learner query parameter. The query parameter is optional.
func (vm *ValidationMiddleware) ValidateLearner() fiber.Handler {
	return func(c *fiber.Ctx) error {
		learner := c.Params("name")
		if learner == "" {
			learner = c.Query("learner")
			if learner == "" {
				return c.Next()
			}
		}
		if errs := vm.validator.ValidateLearner(learner); len(errs) > 0 {
			return errs
		}
		c.Locals(LocalLearner, learner)
		return c.Next()
	}
}

// ValidateLimit validates the optional limit query parameter
func (vm *ValidationMiddleware) ValidateLimit() fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit := 0
		if limitStr := c.Query("limit"); limitStr != "" {
			parsed, err := parseLimit(limitStr)
			if err != nil {
				return domain.ValidationErrors{domain.NewInvalidFormatError("limit", limitStr)}
			}
			limit = parsed
		}
		c.Locals(LocalLimit, limit)
		return c.Next()
	}
}

// parseLimit parses a positive decimal no larger than maxLimit
func parseLimit(s string) (int, error) {
	n := 0
	for _, char := range s {
		if char < '0' || char > '9' {
			return 0, domain.NewValidationError("limit must be a number")
		}
		n = n*10 + int(char-'0')
		if n > maxLimit {
			return 0, domain.NewValidationError("limit exceeds maximum value")
		}
	}
	if n == 0 {
		return 0, domain.NewValidationError("limit must be greater than 0")
	}
	return n, nil
}
