package domain

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	CodeInternal      ErrorCode = "INTERNAL_ERROR"
	CodeInvalidInput  ErrorCode = "INVALID_INPUT"
	CodeNotFound      ErrorCode = "NOT_FOUND"
	CodeValidation    ErrorCode = "VALIDATION_ERROR"
	CodeMissingField  ErrorCode = "MISSING_FIELD"
	CodeInvalidFormat ErrorCode = "INVALID_FORMAT"
	CodeOutOfRange    ErrorCode = "OUT_OF_RANGE"

	// Evaluation engine errors
	CodeMalformedQuestion       ErrorCode = "MALFORMED_QUESTION"
	CodeUnsupportedQuestionType ErrorCode = "UNSUPPORTED_QUESTION_TYPE"
	CodeInvalidTransition       ErrorCode = "INVALID_TRANSITION"
	CodeInvalidAnswer           ErrorCode = "INVALID_ANSWER"
	CodePersistenceFailed       ErrorCode = "PERSISTENCE_FAILED"
	CodeItemNotFound            ErrorCode = "ITEM_NOT_FOUND"
	CodeSessionNotFound         ErrorCode = "SESSION_NOT_FOUND"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is matches another *DomainError by code, so errors.Is(err, ErrInvalidTransition) works
// for any wrapped error carrying that code.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithContext attaches a key/value pair that is reported alongside the error.
func (e *DomainError) WithContext(key string, value interface{}) *DomainError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string                 `json:"code"`
		Message string                 `json:"message"`
		Context map[string]interface{} `json:"context,omitempty"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
		Context: e.Context,
	})
}

// Sentinels for errors.Is checks. Only the code is compared.
var (
	ErrInternal                = &DomainError{Code: CodeInternal}
	ErrInvalidInput            = &DomainError{Code: CodeInvalidInput}
	ErrNotFound                = &DomainError{Code: CodeNotFound}
	ErrMalformedQuestion       = &DomainError{Code: CodeMalformedQuestion}
	ErrUnsupportedQuestionType = &DomainError{Code: CodeUnsupportedQuestionType}
	ErrInvalidTransition       = &DomainError{Code: CodeInvalidTransition}
	ErrInvalidAnswer           = &DomainError{Code: CodeInvalidAnswer}
	ErrPersistenceFailed       = &DomainError{Code: CodePersistenceFailed}
	ErrItemNotFound            = &DomainError{Code: CodeItemNotFound}
	ErrSessionNotFound         = &DomainError{Code: CodeSessionNotFound}
)

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Helper functions for common errors
func NewNotFoundError(message string) *DomainError {
	return NewError(CodeNotFound, message, nil)
}

func NewInvalidInputError(message string) *DomainError {
	return NewError(CodeInvalidInput, message, nil)
}

func NewInternalError(message string, cause error) *DomainError {
	return NewError(CodeInternal, message, cause)
}

// NewMalformedQuestionError reports a question whose content does not fit its declared type.
// question is 1-based, as shown to authors.
func NewMalformedQuestionError(item string, question int, field, reason string) *DomainError {
	return NewError(CodeMalformedQuestion,
		fmt.Sprintf("item %q question %d: invalid %s: %s", item, question, field, reason), nil).
		WithContext("item", item).
		WithContext("question", question).
		WithContext("field", field)
}

func NewUnsupportedQuestionTypeError(qType QuestionType) *DomainError {
	return NewError(CodeUnsupportedQuestionType,
		fmt.Sprintf("unsupported question type: %q", qType), nil).
		WithContext("type", string(qType))
}

func NewInvalidTransitionError(operation, reason string) *DomainError {
	return NewError(CodeInvalidTransition,
		fmt.Sprintf("cannot %s: %s", operation, reason), nil).
		WithContext("operation", operation)
}

func NewInvalidAnswerError(message string) *DomainError {
	return NewError(CodeInvalidAnswer, message, nil)
}

func NewPersistenceFailedError(cause error) *DomainError {
	return NewError(CodePersistenceFailed, "failed to persist evaluation", cause)
}

func NewItemNotFoundError(item string) *DomainError {
	return NewError(CodeItemNotFound, fmt.Sprintf("item not found: %s", item), nil)
}

func NewSessionNotFoundError(sessionID string) *DomainError {
	return NewError(CodeSessionNotFound, fmt.Sprintf("session not found: %s", sessionID), nil)
}

// ValidationError describes one invalid field of a request.
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a list of field errors returned together.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	return fmt.Sprintf("%s (and %d more)", e[0].Error(), len(e)-1)
}

func NewValidationError(message string) ValidationError {
	return ValidationError{Message: message}
}

func NewMissingFieldError(field string) ValidationError {
	return ValidationError{Field: field, Message: "field is required"}
}

func NewInvalidFormatError(field string, value interface{}) ValidationError {
	return ValidationError{Field: field, Message: "invalid format", Value: value}
}

func NewOutOfRangeError(field string, value interface{}, min, max int) ValidationError {
	return ValidationError{
		Field:   field,
		Message: fmt.Sprintf("must be between %d and %d", min, max),
		Value:   value,
	}
}
