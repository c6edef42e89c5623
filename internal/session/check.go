package session

import (
	"fmt"

	"skill-assess/internal/domain"
)

// CheckAnswer verifies that answer has the shape q expects and stays within the options
// q offers. Questions of an unsupported type accept any non-nil answer, so a learner can
// move past them.
func CheckAnswer(q domain.Question, answer domain.Answer) error {
	if answer == nil {
		return domain.NewInvalidAnswerError("an answer is required")
	}
	if _, ok := q.Body.(domain.Unsupported); ok {
		return nil
	}
	if answer.AnswerType() != q.Type() {
		return domain.NewInvalidAnswerError(
			fmt.Sprintf("question %d expects a %s answer, got %s", q.Index+1, q.Type(), answer.AnswerType()))
	}

	switch body := q.Body.(type) {
	case domain.MultipleChoice:
		a := answer.(domain.ChoiceAnswer)
		if a < 1 || int(a) > len(body.Options) {
			return domain.NewInvalidAnswerError(fmt.Sprintf("option %d does not exist", a))
		}
	case domain.MultipleSelect:
		a := answer.(domain.SelectionAnswer)
		distinct := make(map[int]bool, len(a))
		for _, opt := range a {
			if opt < 1 || opt > len(body.Options) {
				return domain.NewInvalidAnswerError(fmt.Sprintf("option %d does not exist", opt))
			}
			distinct[opt] = true
		}
		lo, hi := body.SelectionBounds()
		if len(distinct) < lo || len(distinct) > hi {
			return domain.NewInvalidAnswerError(
				fmt.Sprintf("select between %d and %d options, got %d", lo, hi, len(distinct)))
		}
	case domain.Matching:
		for item := range answer.(domain.MatchingAnswer) {
			if _, ok := body.CorrectAnswers[item]; !ok {
				return domain.NewInvalidAnswerError(fmt.Sprintf("unknown item %q", item))
			}
		}
	case domain.RangeInput:
		for subject, bounds := range answer.(domain.RangeAnswer) {
			if _, ok := body.CorrectRanges[subject]; !ok {
				return domain.NewInvalidAnswerError(fmt.Sprintf("unknown subject %q", subject))
			}
			if bounds.Complete() && *bounds.Min >= *bounds.Max {
				return domain.NewInvalidAnswerError(
					fmt.Sprintf("range for %q must have min below max", subject))
			}
		}
	case domain.Ordering:
		for _, step := range answer.(domain.OrderingAnswer) {
			if step < 1 || step > len(body.Steps) {
				return domain.NewInvalidAnswerError(fmt.Sprintf("step %d does not exist", step))
			}
		}
	case domain.FillBlanks:
		if n := len(answer.(domain.BlanksAnswer)); n > body.Blanks {
			return domain.NewInvalidAnswerError(fmt.Sprintf("%d answers for %d blanks", n, body.Blanks))
		}
	case domain.MatchingPairs:
		known := make(map[string]bool, len(body.Pairs))
		for _, p := range body.Pairs {
			known[p.Item] = true
		}
		for item := range answer.(domain.PairsAnswer) {
			if !known[item] {
				return domain.NewInvalidAnswerError(fmt.Sprintf("unknown item %q", item))
			}
		}
	}
	return nil
}
