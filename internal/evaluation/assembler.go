// Package evaluation turns the scored results of a completed session into the summary
// handed to storage and shown to the learner.
package evaluation

import (
	"fmt"

	"skill-assess/internal/domain"
	"skill-assess/internal/session"
)

// Assembler builds evaluation summaries using one set of labels.
type Assembler struct {
	labels Labels
}

func NewAssembler(locale string) *Assembler {
	return &Assembler{labels: LabelsFor(locale)}
}

func (a *Assembler) Labels() Labels {
	return a.labels
}

// Assemble aggregates results, one per question in order, into a summary. The score
// percentage is the sum of the continuous scores over the question count, so it can
// differ from CorrectAnswers/TotalQuestions.
func (a *Assembler) Assemble(item *domain.Item, answers map[int]domain.Answer, results []domain.ScoreResult) (*domain.EvaluationSummary, error) {
	if item == nil {
		return nil, domain.NewInvalidInputError("item is required")
	}
	if len(results) != item.Len() {
		return nil, domain.NewInvalidInputError(
			fmt.Sprintf("expected %d results, got %d", item.Len(), len(results)))
	}

	summary := &domain.EvaluationSummary{
		ItemName:       item.Name,
		TotalQuestions: item.Len(),
		PerQuestion:    make([]domain.QuestionSummary, 0, item.Len()),
	}

	var total float64
	for i, q := range item.Questions {
		res := results[i]
		if res.IsCorrect {
			summary.CorrectAnswers++
		}
		total += res.Score
		summary.PerQuestion = append(summary.PerQuestion, domain.QuestionSummary{
			Number:            i + 1,
			QuestionText:      q.Text,
			Type:              q.Type(),
			IsCorrect:         res.IsCorrect,
			UserAnswerText:    a.labels.AnswerText(q, answers[i]),
			CorrectAnswerText: a.labels.CorrectAnswerText(q),
			ScorePoints:       res.Score,
			Feedback:          res.Feedback,
		})
	}
	if summary.TotalQuestions > 0 {
		summary.ScorePercentage = total / float64(summary.TotalQuestions) * 100
	}
	return summary, nil
}

// FromSession assembles the summary of a completed session.
func (a *Assembler) FromSession(s *session.Session) (*domain.EvaluationSummary, error) {
	if !s.IsCompleted() {
		return nil, domain.NewInvalidTransitionError("summarize", "session is not completed")
	}
	return a.Assemble(s.Item(), s.Answers(), s.Results())
}
