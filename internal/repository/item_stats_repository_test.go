package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLXItemStatsRepository_Update_Existing(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()
	repo := NewSQLXItemStatsRepository(db)

	mock.ExpectQuery(`SELECT AVG\(score_percentage\) FROM evaluations WHERE item_name = \?`).
		WithArgs("Soudure").
		WillReturnRows(sqlmock.NewRows([]string{"avg"}).AddRow(75.0))
	mock.ExpectExec(`UPDATE item_statistics SET total_attempts = total_attempts \+ 1`).
		WithArgs(3, 4, 75.0, sqlmock.AnyArg(), "Soudure").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Update(context.Background(), "Soudure", 4, 3, 75))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLXItemStatsRepository_Update_FirstAttempt(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()
	repo := NewSQLXItemStatsRepository(db)

	mock.ExpectQuery(`SELECT AVG`).
		WithArgs("Soudure").
		WillReturnRows(sqlmock.NewRows([]string{"avg"}).AddRow(nil))
	mock.ExpectExec(`UPDATE item_statistics`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO item_statistics`).
		WithArgs("Soudure", 1, 50.0, 1, 2, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Update(context.Background(), "Soudure", 2, 1, 50))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLXItemStatsRepository_Get(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()
	repo := NewSQLXItemStatsRepository(db)

	now := time.Now().Truncate(time.Second)
	cols := []string{"item_name", "total_attempts", "average_score", "total_correct_answers", "total_questions_attempted", "last_updated"}
	mock.ExpectQuery(`FROM item_statistics WHERE item_name = \?`).
		WithArgs("Soudure").
		WillReturnRows(sqlmock.NewRows(cols).AddRow("Soudure", 2, 62.5, 5, 8, now))
	mock.ExpectQuery(`FROM item_statistics WHERE item_name = \?`).
		WithArgs("Unknown").
		WillReturnRows(sqlmock.NewRows(cols))

	stats, err := repo.Get(context.Background(), "Soudure")
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalAttempts)
	assert.Equal(t, 62.5, stats.AverageScore)
	assert.Equal(t, 8, stats.TotalQuestionsAttempted)

	stats, err = repo.Get(context.Background(), "Unknown")
	assert.NoError(t, err)
	assert.Nil(t, stats)
	assert.NoError(t, mock.ExpectationsWereMet())
}
