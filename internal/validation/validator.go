package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"skill-assess/internal/domain"

	"github.com/go-playground/validator/v10"
)

var (
	validULID    = regexp.MustCompile(`^[0-9A-HJKMNP-TV-Z]{26}$`)
	validLearner = regexp.MustCompile(`^[\p{L}\p{N} ._'-]+$`)
)

// Validator checks request payloads and question bank records against their struct tags.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("question_type", func(fl validator.FieldLevel) bool {
		return domain.QuestionType(fl.Field().String()).IsKnown()
	})
	_ = v.RegisterValidation("learner_name", func(fl validator.FieldLevel) bool {
		return validLearner.MatchString(fl.Field().String())
	})

	return &Validator{validate: v}
}

// Struct validates s and returns its field errors, or nil when s is valid.
func (v *Validator) Struct(s interface{}) domain.ValidationErrors {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return domain.ValidationErrors{domain.NewValidationError(err.Error())}
	}

	out := make(domain.ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, toValidationError(fe))
	}
	return out
}

func toValidationError(fe validator.FieldError) domain.ValidationError {
	field := fieldPath(fe)
	switch fe.Tag() {
	case "required":
		return domain.NewMissingFieldError(field)
	case "min", "gte":
		return domain.ValidationError{Field: field, Message: "must be at least " + fe.Param(), Value: fe.Value()}
	case "max", "lte":
		return domain.ValidationError{Field: field, Message: "must be at most " + fe.Param(), Value: fe.Value()}
	case "len":
		return domain.ValidationError{Field: field, Message: "must have length " + fe.Param(), Value: fe.Value()}
	case "oneof":
		return domain.ValidationError{Field: field, Message: "must be one of: " + fe.Param(), Value: fe.Value()}
	case "gtfield", "gtefield":
		return domain.ValidationError{Field: field, Message: "must be greater than " + fe.Param(), Value: fe.Value()}
	default:
		return domain.ValidationError{Field: field, Message: fmt.Sprintf("failed %q validation", fe.Tag()), Value: fe.Value()}
	}
}

// fieldPath drops the top-level struct name from the namespace ("record.options[2]" -> "options[2]").
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

// ValidateSessionID checks that id looks like a session identifier.
func (v *Validator) ValidateSessionID(id string) domain.ValidationErrors {
	if strings.TrimSpace(id) == "" {
		return domain.ValidationErrors{domain.NewMissingFieldError("session_id")}
	}
	if !validULID.MatchString(id) {
		return domain.ValidationErrors{domain.NewInvalidFormatError("session_id", id)}
	}
	return nil
}

// ValidateLearner checks a learner name from a query string.
func (v *Validator) ValidateLearner(name string) domain.ValidationErrors {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.ValidationErrors{domain.NewMissingFieldError("learner")}
	}
	if len(name) > 100 {
		return domain.ValidationErrors{domain.NewOutOfRangeError("learner", len(name), 1, 100)}
	}
	if !validLearner.MatchString(name) {
		return domain.ValidationErrors{domain.NewInvalidFormatError("learner", name)}
	}
	return nil
}
