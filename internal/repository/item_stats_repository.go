package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"skill-assess/internal/domain"
	"skill-assess/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

// sqlxItemStatsRepository implements domain.ItemStatsRepository using sqlx.
type sqlxItemStatsRepository struct {
	db *sqlx.DB
}

func NewSQLXItemStatsRepository(db *sqlx.DB) domain.ItemStatsRepository {
	return &sqlxItemStatsRepository{db: db}
}

// Update folds one evaluation into the aggregates of its item. The average is recomputed
// from the evaluations table, so the evaluation must already be saved in the same transaction.
func (r *sqlxItemStatsRepository) Update(ctx context.Context, itemName string, totalQuestions, correctAnswers int, scorePercentage float64) error {
	exec := GetExecutor(ctx, r.db)
	now := time.Now()

	var average sql.NullFloat64
	if err := exec.GetContext(ctx, &average,
		exec.Rebind(`SELECT AVG(score_percentage) FROM evaluations WHERE item_name = ?`), itemName); err != nil {
		return fmt.Errorf("failed to compute average score of %s: %w", itemName, err)
	}
	if !average.Valid {
		average.Float64 = scorePercentage
	}

	res, err := exec.ExecContext(ctx,
		exec.Rebind(`UPDATE item_statistics SET total_attempts = total_attempts + 1,
			total_correct_answers = total_correct_answers + ?,
			total_questions_attempted = total_questions_attempted + ?,
			average_score = ?, last_updated = ?
		WHERE item_name = ?`),
		correctAnswers, totalQuestions, average.Float64, now, itemName)
	if err != nil {
		return fmt.Errorf("failed to update statistics of %s: %w", itemName, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected > 0 {
		return nil
	}

	_, err = exec.ExecContext(ctx,
		exec.Rebind(`INSERT INTO item_statistics (item_name, total_attempts, average_score, total_correct_answers, total_questions_attempted, last_updated)
		VALUES (?, ?, ?, ?, ?, ?)`),
		itemName, 1, average.Float64, correctAnswers, totalQuestions, now)
	if err != nil {
		return fmt.Errorf("failed to create statistics of %s: %w", itemName, err)
	}
	return nil
}

// Get returns (nil, nil) for an item that was never evaluated.
func (r *sqlxItemStatsRepository) Get(ctx context.Context, itemName string) (*domain.ItemStats, error) {
	exec := GetExecutor(ctx, r.db)

	var m models.ItemStatistics
	err := exec.GetContext(ctx, &m,
		exec.Rebind(`SELECT item_name, total_attempts, average_score, total_correct_answers, total_questions_attempted, last_updated
		FROM item_statistics WHERE item_name = ?`), itemName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get statistics of %s: %w", itemName, err)
	}
	return &domain.ItemStats{
		ItemName:                m.ItemName,
		TotalAttempts:           m.TotalAttempts,
		AverageScore:            m.AverageScore,
		TotalCorrectAnswers:     m.TotalCorrectAnswers,
		TotalQuestionsAttempted: m.TotalQuestionsAttempted,
		LastUpdated:             m.LastUpdated,
	}, nil
}
