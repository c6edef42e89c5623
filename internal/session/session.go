// Package session sequences the questions of one Item for one learner.
//
// A Session is a state machine with two states: awaiting an answer for question i, and
// completed. It never touches storage; callers persist it through Snapshot and Restore.
package session

import (
	"errors"
	"fmt"

	"skill-assess/internal/domain"
	"skill-assess/internal/scoring"
)

// State is the externally visible state of a session.
type State string

const (
	StateAwaitingAnswer State = "awaiting_answer"
	StateCompleted      State = "completed"
)

const (
	feedbackUnsupported = "Unsupported question type"
	feedbackMalformed   = "Question could not be scored"
	feedbackScoreFailed = "Scoring failed"
)

// Session owns the answers and results of one attempt. It is not safe for concurrent use.
type Session struct {
	item      *domain.Item
	current   int
	answers   map[int]domain.Answer
	completed bool
	results   []domain.ScoreResult
	scoreErrs map[int]error
}

// New starts a session at the first question of item.
func New(item *domain.Item) (*Session, error) {
	if item == nil || item.Len() == 0 {
		return nil, domain.NewInvalidInputError("cannot start a session on an empty item")
	}
	return &Session{
		item:    item,
		answers: make(map[int]domain.Answer),
	}, nil
}

func (s *Session) Item() *domain.Item {
	return s.item
}

// State returns the current state and, while awaiting an answer, the question index.
func (s *Session) State() (State, int) {
	if s.completed {
		return StateCompleted, -1
	}
	return StateAwaitingAnswer, s.current
}

func (s *Session) IsCompleted() bool {
	return s.completed
}

// CurrentIndex is the 0-based index of the question awaiting an answer.
func (s *Session) CurrentIndex() int {
	return s.current
}

// CurrentQuestion returns the question awaiting an answer. It does not mutate the session.
func (s *Session) CurrentQuestion() (domain.Question, error) {
	if s.completed {
		return domain.Question{}, domain.NewInvalidTransitionError("get current question", "session is completed")
	}
	q, _ := s.item.Question(s.current)
	return q, nil
}

// Answer returns the stored answer for question i.
func (s *Session) Answer(i int) (domain.Answer, bool) {
	a, ok := s.answers[i]
	return a, ok
}

// Answers returns a copy of every stored answer keyed by question index.
func (s *Session) Answers() map[int]domain.Answer {
	out := make(map[int]domain.Answer, len(s.answers))
	for i, a := range s.answers {
		out[i] = a
	}
	return out
}

// SubmitAnswer stores answer for question i, replacing any earlier answer. i must be the
// current index.
func (s *Session) SubmitAnswer(i int, answer domain.Answer) error {
	if s.completed {
		return domain.NewInvalidTransitionError("submit answer", "session is completed")
	}
	if i != s.current {
		return domain.NewInvalidTransitionError("submit answer",
			fmt.Sprintf("question %d is not the current question (%d)", i, s.current))
	}
	q, _ := s.item.Question(i)
	if err := CheckAnswer(q, answer); err != nil {
		return err
	}
	s.answers[i] = answer
	return nil
}

// Advance moves to the next question. On the last question it finishes the session.
func (s *Session) Advance() error {
	if s.completed {
		return domain.NewInvalidTransitionError("advance", "session is completed")
	}
	if _, ok := s.answers[s.current]; !ok {
		return domain.NewInvalidTransitionError("advance",
			fmt.Sprintf("question %d has no answer", s.current+1))
	}
	if s.current == s.item.Len()-1 {
		return s.Finish()
	}
	s.current++
	return nil
}

// Retreat moves back one question. Stored answers are kept.
func (s *Session) Retreat() error {
	if s.completed {
		return domain.NewInvalidTransitionError("retreat", "session is completed")
	}
	if s.current == 0 {
		return domain.NewInvalidTransitionError("retreat", "already at the first question")
	}
	s.current--
	return nil
}

// Finish scores every question in order and completes the session. Questions without an
// answer score as unanswered. A question the scorer rejects scores 0 and its error is
// kept in ScoringErrors; it never aborts the pass.
func (s *Session) Finish() error {
	if s.completed {
		return domain.NewInvalidTransitionError("finish", "session is already completed")
	}
	results := make([]domain.ScoreResult, s.item.Len())
	errs := make(map[int]error)
	for i, q := range s.item.Questions {
		res, err := scoring.Score(q, s.answers[i])
		if err != nil {
			errs[i] = err
			res = domain.ScoreResult{IsCorrect: false, Score: 0, Feedback: scoreErrorFeedback(err)}
		}
		results[i] = res
	}
	s.results = results
	s.scoreErrs = errs
	s.completed = true
	return nil
}

func scoreErrorFeedback(err error) string {
	switch {
	case errors.Is(err, domain.ErrUnsupportedQuestionType):
		return feedbackUnsupported
	case errors.Is(err, domain.ErrMalformedQuestion):
		return feedbackMalformed
	default:
		return feedbackScoreFailed
	}
}

// Restart discards every answer and result and returns to the first question.
// Only a completed session can be restarted.
func (s *Session) Restart() error {
	if !s.completed {
		return domain.NewInvalidTransitionError("restart", "session is not completed")
	}
	s.current = 0
	s.answers = make(map[int]domain.Answer)
	s.results = nil
	s.scoreErrs = nil
	s.completed = false
	return nil
}

// Results are the per-question scores in question order. Empty until completion.
func (s *Session) Results() []domain.ScoreResult {
	out := make([]domain.ScoreResult, len(s.results))
	copy(out, s.results)
	return out
}

// ScoringErrors returns the errors raised while scoring, keyed by question index.
func (s *Session) ScoringErrors() map[int]error {
	return s.scoreErrs
}
