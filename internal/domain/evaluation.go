package domain

import "time"

// ScoreResult is the outcome of scoring one answer. Score is in [0,1] for every type
// except weighted multiple select, which is only bounded below by 0.
type ScoreResult struct {
	IsCorrect bool    `json:"is_correct"`
	Score     float64 `json:"score"`
	Feedback  string  `json:"feedback"`
}

// QuestionSummary is one row of an evaluation summary.
type QuestionSummary struct {
	Number            int          `json:"number"`
	QuestionText      string       `json:"question_text"`
	Type              QuestionType `json:"type"`
	IsCorrect         bool         `json:"is_correct"`
	UserAnswerText    string       `json:"user_answer"`
	CorrectAnswerText string       `json:"correct_answer"`
	ScorePoints       float64      `json:"score_points"`
	Feedback          string       `json:"feedback,omitempty"`
}

// EvaluationSummary aggregates the scored results of a completed session.
type EvaluationSummary struct {
	ItemName        string            `json:"item_name"`
	TotalQuestions  int               `json:"total_questions"`
	CorrectAnswers  int               `json:"correct_answers"`
	ScorePercentage float64           `json:"score_percentage"`
	PerQuestion     []QuestionSummary `json:"per_question"`
}

// Evaluation is a summary as stored for a learner.
type Evaluation struct {
	ID              string
	UserID          string
	Summary         EvaluationSummary
	EvaluatedAt     time.Time
	DurationMinutes float64
}

// User is a learner known to the storage collaborator.
type User struct {
	ID                  string
	Username            string
	FirstEvaluationDate time.Time
	TotalEvaluations    int
}

// ItemStats are the running aggregates of every stored evaluation of one item.
type ItemStats struct {
	ItemName                string
	TotalAttempts           int
	AverageScore            float64
	TotalCorrectAnswers     int
	TotalQuestionsAttempted int
	LastUpdated             time.Time
}
