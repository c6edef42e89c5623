package dto

import (
	"encoding/json"
	"time"

	"skill-assess/internal/domain"
)

// ItemResponse is one assessable item in the catalog
// @Description Item of the question bank
type ItemResponse struct {
	Name          string `json:"name"`
	QuestionCount int    `json:"question_count"`
	Completed     bool   `json:"completed"`
}

type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
}

// StartSessionRequest opens a session of one item for a learner
// @Description Request body for starting a session
type StartSessionRequest struct {
	Learner string `json:"learner" validate:"required,max=100,learner_name"`
	Item    string `json:"item" validate:"required,max=500"`
}

// SessionResponse describes the state of a session
// @Description Session state
type SessionResponse struct {
	SessionID         string                    `json:"session_id"`
	Learner           string                    `json:"learner"`
	ItemName          string                    `json:"item_name"`
	State             string                    `json:"state"`
	CurrentQuestion   int                       `json:"current_question,omitempty"` // 1-based, absent once completed
	TotalQuestions    int                       `json:"total_questions"`
	AnsweredQuestions int                       `json:"answered_questions"`
	StartedAt         time.Time                 `json:"started_at"`
	Summary           *domain.EvaluationSummary `json:"summary,omitempty"`
	PersistenceError  string                    `json:"persistence_error,omitempty"`
}

// ChoiceView is a selectable entry identified by its 1-based authoring position.
type ChoiceView struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}

// QuestionView is the current question as shown to the learner. It never carries the
// expected answer.
// @Description Current question of a session
type QuestionView struct {
	SessionID     string          `json:"session_id"`
	Number        int             `json:"number"`
	Total         int             `json:"total"`
	Type          string          `json:"type"`
	Question      string          `json:"question"`
	Supported     bool            `json:"supported"`
	Options       []ChoiceView    `json:"options,omitempty"`
	MinSelections int             `json:"min_selections,omitempty"`
	MaxSelections int             `json:"max_selections,omitempty"`
	Items         []string        `json:"items,omitempty"`
	Categories    []string        `json:"categories,omitempty"`
	Matches       []string        `json:"matches,omitempty"`
	Subjects      []string        `json:"subjects,omitempty"`
	Steps         []ChoiceView    `json:"steps,omitempty"`
	Blanks        int             `json:"blanks,omitempty"`
	Unit          string          `json:"unit,omitempty"`
	FormulaHint   string          `json:"formula_hint,omitempty"`
	Answer        json.RawMessage `json:"answer,omitempty" swaggertype:"object"`
}

// SubmitAnswerRequest carries the answer to the current question. QuestionNumber is
// optional; when set it must be the current question.
// @Description Request body for submitting an answer
type SubmitAnswerRequest struct {
	QuestionNumber int             `json:"question_number" validate:"omitempty,min=1"`
	Answer         json.RawMessage `json:"answer" validate:"required" swaggertype:"object"`
}

// EvaluationResponse is one stored evaluation of a learner
type EvaluationResponse struct {
	ID              string                   `json:"id"`
	ItemName        string                   `json:"item_name"`
	TotalQuestions  int                      `json:"total_questions"`
	CorrectAnswers  int                      `json:"correct_answers"`
	ScorePercentage float64                  `json:"score_percentage"`
	EvaluatedAt     time.Time                `json:"evaluated_at"`
	DurationMinutes float64                  `json:"duration_minutes,omitempty"`
	PerQuestion     []domain.QuestionSummary `json:"per_question,omitempty"`
}

type EvaluationListResponse struct {
	Learner          string               `json:"learner"`
	TotalEvaluations int                  `json:"total_evaluations"`
	Evaluations      []EvaluationResponse `json:"evaluations"`
}

// ItemStatsResponse holds the aggregates of every stored evaluation of an item
type ItemStatsResponse struct {
	ItemName                string    `json:"item_name"`
	TotalAttempts           int       `json:"total_attempts"`
	AverageScore            float64   `json:"average_score"`
	TotalCorrectAnswers     int       `json:"total_correct_answers"`
	TotalQuestionsAttempted int       `json:"total_questions_attempted"`
	LastUpdated             time.Time `json:"last_updated,omitempty"`
}

// HealthResponse reports the reachability of the backing stores
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Cache    string `json:"cache"`
}
