package repository

import (
	"context"
	"fmt"
	"time"

	"skill-assess/internal/domain"
	"skill-assess/internal/repository/models"
	"skill-assess/internal/util"

	"github.com/jmoiron/sqlx"
)

// sqlxEvaluationRepository implements domain.EvaluationRepository using sqlx.
type sqlxEvaluationRepository struct {
	db *sqlx.DB
}

func NewSQLXEvaluationRepository(db *sqlx.DB) domain.EvaluationRepository {
	return &sqlxEvaluationRepository{db: db}
}

func fromDomainEvaluation(e *domain.Evaluation) *models.Evaluation {
	m := &models.Evaluation{
		ID:              e.ID,
		UserID:          e.UserID,
		ItemName:        e.Summary.ItemName,
		TotalQuestions:  e.Summary.TotalQuestions,
		CorrectAnswers:  e.Summary.CorrectAnswers,
		ScorePercentage: e.Summary.ScorePercentage,
		EvaluationDate:  e.EvaluatedAt,
		DurationMinutes: util.PositiveToNullFloat64(e.DurationMinutes),
	}
	return m
}

func fromDomainQuestionSummary(evaluationID string, q domain.QuestionSummary) models.QuestionResult {
	return models.QuestionResult{
		ID:             util.NewULID(),
		EvaluationID:   evaluationID,
		QuestionNumber: q.Number,
		QuestionText:   q.QuestionText,
		QuestionType:   string(q.Type),
		IsCorrect:      q.IsCorrect,
		UserAnswer:     util.StringToNullString(q.UserAnswerText),
		CorrectAnswer:  util.StringToNullString(q.CorrectAnswerText),
		ScorePoints:    q.ScorePoints,
		Feedback:       util.StringToNullString(q.Feedback),
	}
}

func toDomainEvaluation(m models.Evaluation, rows []models.QuestionResult) domain.Evaluation {
	perQuestion := make([]domain.QuestionSummary, 0, len(rows))
	for _, r := range rows {
		perQuestion = append(perQuestion, domain.QuestionSummary{
			Number:            r.QuestionNumber,
			QuestionText:      r.QuestionText,
			Type:              domain.QuestionType(r.QuestionType),
			IsCorrect:         r.IsCorrect,
			UserAnswerText:    r.UserAnswer.String,
			CorrectAnswerText: r.CorrectAnswer.String,
			ScorePoints:       r.ScorePoints,
			Feedback:          r.Feedback.String,
		})
	}
	return domain.Evaluation{
		ID:     m.ID,
		UserID: m.UserID,
		Summary: domain.EvaluationSummary{
			ItemName:        m.ItemName,
			TotalQuestions:  m.TotalQuestions,
			CorrectAnswers:  m.CorrectAnswers,
			ScorePercentage: m.ScorePercentage,
			PerQuestion:     perQuestion,
		},
		EvaluatedAt:     m.EvaluationDate,
		DurationMinutes: m.DurationMinutes.Float64,
	}
}

// Save inserts the evaluation and one question_results row per question. ID and
// EvaluatedAt are filled in when empty.
func (r *sqlxEvaluationRepository) Save(ctx context.Context, evaluation *domain.Evaluation) error {
	if evaluation.ID == "" {
		evaluation.ID = util.NewULID()
	}
	if evaluation.EvaluatedAt.IsZero() {
		evaluation.EvaluatedAt = time.Now()
	}
	exec := GetExecutor(ctx, r.db)

	m := fromDomainEvaluation(evaluation)
	_, err := exec.ExecContext(ctx,
		exec.Rebind(`INSERT INTO evaluations (id, user_id, item_name, total_questions, correct_answers, score_percentage, evaluation_date, duration_minutes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
		m.ID, m.UserID, m.ItemName, m.TotalQuestions, m.CorrectAnswers, m.ScorePercentage, m.EvaluationDate, m.DurationMinutes)
	if err != nil {
		return fmt.Errorf("failed to insert evaluation %s: %w", m.ID, err)
	}

	insertResult := exec.Rebind(`INSERT INTO question_results (id, evaluation_id, question_number, question_text, question_type, is_correct, user_answer, correct_answer, score_points, feedback)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	for _, q := range evaluation.Summary.PerQuestion {
		row := fromDomainQuestionSummary(m.ID, q)
		_, err := exec.ExecContext(ctx, insertResult,
			row.ID, row.EvaluationID, row.QuestionNumber, row.QuestionText, row.QuestionType,
			row.IsCorrect, row.UserAnswer, row.CorrectAnswer, row.ScorePoints, row.Feedback)
		if err != nil {
			return fmt.Errorf("failed to insert result of question %d: %w", q.Number, err)
		}
	}
	return nil
}

// ListByUser returns the most recent evaluations of a learner, newest first, with
// their per-question rows. A non-positive limit returns all of them.
func (r *sqlxEvaluationRepository) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Evaluation, error) {
	exec := GetExecutor(ctx, r.db)

	query := `SELECT id, user_id, item_name, total_questions, correct_answers, score_percentage, evaluation_date, duration_minutes
		FROM evaluations WHERE user_id = ? ORDER BY evaluation_date DESC`
	if limit > 0 {
		query += limitClause(r.db.DriverName(), limit)
	}

	var rows []models.Evaluation
	if err := exec.SelectContext(ctx, &rows, exec.Rebind(query), userID); err != nil {
		return nil, fmt.Errorf("failed to list evaluations of user %s: %w", userID, err)
	}
	if len(rows) == 0 {
		return []domain.Evaluation{}, nil
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	inQuery, args, err := sqlx.In(`SELECT id, evaluation_id, question_number, question_text, question_type, is_correct, user_answer, correct_answer, score_points, feedback
		FROM question_results WHERE evaluation_id IN (?) ORDER BY evaluation_id, question_number`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build question results query: %w", err)
	}
	var results []models.QuestionResult
	if err := exec.SelectContext(ctx, &results, exec.Rebind(inQuery), args...); err != nil {
		return nil, fmt.Errorf("failed to list question results of user %s: %w", userID, err)
	}

	byEvaluation := make(map[string][]models.QuestionResult, len(rows))
	for _, res := range results {
		byEvaluation[res.EvaluationID] = append(byEvaluation[res.EvaluationID], res)
	}

	out := make([]domain.Evaluation, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomainEvaluation(row, byEvaluation[row.ID]))
	}
	return out, nil
}

// limitClause renders a row limit in the dialect of the driver.
func limitClause(driverName string, n int) string {
	if driverName == "oracle" {
		return fmt.Sprintf(" FETCH FIRST %d ROWS ONLY", n)
	}
	return fmt.Sprintf(" LIMIT %d", n)
}
