package domain

import (
	"context"
	"encoding/json"
	"time"
)

// UserRepository stores learners.
type UserRepository interface {
	// CreateOrGet returns the learner with the given name, creating it when absent.
	// Every call counts as one more evaluation for the learner.
	CreateOrGet(ctx context.Context, username string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
}

// EvaluationRepository stores evaluations and their per-question rows.
type EvaluationRepository interface {
	Save(ctx context.Context, evaluation *Evaluation) error
	ListByUser(ctx context.Context, userID string, limit int) ([]Evaluation, error)
}

// ItemStatsRepository maintains per-item aggregates.
type ItemStatsRepository interface {
	Update(ctx context.Context, itemName string, totalQuestions, correctAnswers int, scorePercentage float64) error
	Get(ctx context.Context, itemName string) (*ItemStats, error)
}

// TransactionManager runs fn inside a single storage transaction.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// SessionSnapshot is the serialisable form of a running session.
type SessionSnapshot struct {
	ID           string               `json:"id"`
	ItemName     string               `json:"item_name"`
	Learner      string               `json:"learner"`
	CurrentIndex int                  `json:"current_index"`
	Completed    bool                 `json:"completed"`
	Answers      map[int]AnswerRecord `json:"answers"`
	Results      []ScoreResult        `json:"results,omitempty"`
	StartedAt    time.Time            `json:"started_at"`
}

// AnswerRecord is a stored answer together with its type, so it can be decoded again.
type AnswerRecord struct {
	Type  QuestionType    `json:"type"`
	Value json.RawMessage `json:"value"`
}

// SessionStore keeps session snapshots between requests.
type SessionStore interface {
	Save(ctx context.Context, snapshot *SessionSnapshot) error
	Load(ctx context.Context, sessionID string) (*SessionSnapshot, error)
	Delete(ctx context.Context, sessionID string) error
	SaveSummary(ctx context.Context, sessionID string, summary *EvaluationSummary) error
	LoadSummary(ctx context.Context, sessionID string) (*EvaluationSummary, error)
	DeleteSummary(ctx context.Context, sessionID string) error
	MarkItemCompleted(ctx context.Context, learner, itemName string) error
	CompletedItems(ctx context.Context, learner string) (map[string]bool, error)
}

// EvaluationCompletedEvent is published once per completed session.
type EvaluationCompletedEvent struct {
	SessionID       string    `json:"session_id"`
	EvaluationID    string    `json:"evaluation_id,omitempty"`
	Learner         string    `json:"learner"`
	ItemName        string    `json:"item_name"`
	TotalQuestions  int       `json:"total_questions"`
	CorrectAnswers  int       `json:"correct_answers"`
	ScorePercentage float64   `json:"score_percentage"`
	CompletedAt     time.Time `json:"completed_at"`
}

// EventPublisher delivers completion events to interested consumers.
type EventPublisher interface {
	PublishEvaluationCompleted(ctx context.Context, event EvaluationCompletedEvent) error
	Close() error
}
