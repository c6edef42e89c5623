package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"skill-assess/internal/domain"
	"skill-assess/internal/repository/models"
	"skill-assess/internal/util"

	"github.com/jmoiron/sqlx"
)

const selectUserByUsername = `SELECT id, username, first_evaluation_date, total_evaluations FROM users WHERE username = ?`

// sqlxUserRepository implements domain.UserRepository using sqlx.
type sqlxUserRepository struct {
	db *sqlx.DB
}

func NewSQLXUserRepository(db *sqlx.DB) domain.UserRepository {
	return &sqlxUserRepository{db: db}
}

func toDomainUser(m *models.User) *domain.User {
	if m == nil {
		return nil
	}
	return &domain.User{
		ID:                  m.ID,
		Username:            m.Username,
		FirstEvaluationDate: m.FirstEvaluationDate,
		TotalEvaluations:    m.TotalEvaluations,
	}
}

// CreateOrGet looks the learner up by name and bumps its evaluation count, inserting a
// new row with a count of one when the name is unknown.
func (r *sqlxUserRepository) CreateOrGet(ctx context.Context, username string) (*domain.User, error) {
	exec := GetExecutor(ctx, r.db)

	var user models.User
	err := exec.GetContext(ctx, &user, exec.Rebind(selectUserByUsername), username)
	switch {
	case err == nil:
		_, err = exec.ExecContext(ctx,
			exec.Rebind(`UPDATE users SET total_evaluations = total_evaluations + 1 WHERE id = ?`),
			user.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to update evaluation count of user %s: %w", username, err)
		}
		user.TotalEvaluations++
		return toDomainUser(&user), nil

	case errors.Is(err, sql.ErrNoRows):
		user = models.User{
			ID:                  util.NewULID(),
			Username:            username,
			FirstEvaluationDate: time.Now(),
			TotalEvaluations:    1,
		}
		_, err = exec.ExecContext(ctx,
			exec.Rebind(`INSERT INTO users (id, username, first_evaluation_date, total_evaluations) VALUES (?, ?, ?, ?)`),
			user.ID, user.Username, user.FirstEvaluationDate, user.TotalEvaluations)
		if err != nil {
			return nil, fmt.Errorf("failed to create user %s: %w", username, err)
		}
		return toDomainUser(&user), nil

	default:
		return nil, fmt.Errorf("failed to get user %s: %w", username, err)
	}
}

// GetByUsername returns (nil, nil) when no learner has that name.
func (r *sqlxUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	exec := GetExecutor(ctx, r.db)

	var user models.User
	if err := exec.GetContext(ctx, &user, exec.Rebind(selectUserByUsername), username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user %s: %w", username, err)
	}
	return toDomainUser(&user), nil
}
