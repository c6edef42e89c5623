package models

import (
	"database/sql"
	"time"
)

// User is a row of the users table.
type User struct {
	ID                  string    `db:"id"` // ULID
	Username            string    `db:"username"`
	FirstEvaluationDate time.Time `db:"first_evaluation_date"`
	TotalEvaluations    int       `db:"total_evaluations"`
}

// Evaluation is a row of the evaluations table.
type Evaluation struct {
	ID              string          `db:"id"` // ULID
	UserID          string          `db:"user_id"`
	ItemName        string          `db:"item_name"`
	TotalQuestions  int             `db:"total_questions"`
	CorrectAnswers  int             `db:"correct_answers"`
	ScorePercentage float64         `db:"score_percentage"`
	EvaluationDate  time.Time       `db:"evaluation_date"`
	DurationMinutes sql.NullFloat64 `db:"duration_minutes"`
}

// QuestionResult is a row of the question_results table. QuestionNumber is 1-based.
type QuestionResult struct {
	ID             string         `db:"id"`
	EvaluationID   string         `db:"evaluation_id"`
	QuestionNumber int            `db:"question_number"`
	QuestionText   string         `db:"question_text"`
	QuestionType   string         `db:"question_type"`
	IsCorrect      bool           `db:"is_correct"`
	UserAnswer     sql.NullString `db:"user_answer"`
	CorrectAnswer  sql.NullString `db:"correct_answer"`
	ScorePoints    float64        `db:"score_points"`
	Feedback       sql.NullString `db:"feedback"`
}

// ItemStatistics is a row of the item_statistics table.
type ItemStatistics struct {
	ItemName                string    `db:"item_name"`
	TotalAttempts           int       `db:"total_attempts"`
	AverageScore            float64   `db:"average_score"`
	TotalCorrectAnswers     int       `db:"total_correct_answers"`
	TotalQuestionsAttempted int       `db:"total_questions_attempted"`
	LastUpdated             time.Time `db:"last_updated"`
}
