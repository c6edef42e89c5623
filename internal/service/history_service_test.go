package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"skill-assess/internal/domain"
	"skill-assess/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestHistoryService_LearnerEvaluations(t *testing.T) {
	evaluatedAt := time.Date(2026, 5, 4, 14, 0, 0, 0, time.UTC)
	stored := []domain.Evaluation{{
		ID:     "eval-2",
		UserID: "user-1",
		Summary: domain.EvaluationSummary{
			ItemName: "Impression 3D", TotalQuestions: 10, CorrectAnswers: 7, ScorePercentage: 72.5,
			PerQuestion: []domain.QuestionSummary{{Number: 1, QuestionText: "q", Type: domain.TypeTrueFalse, IsCorrect: true, ScorePoints: 1}},
		},
		EvaluatedAt:     evaluatedAt,
		DurationMinutes: 12,
	}}

	tests := []struct {
		name      string
		limit     int
		wantLimit int
	}{
		{name: "default limit", limit: 0, wantLimit: DefaultHistoryLimit},
		{name: "explicit limit", limit: 5, wantLimit: 5},
		{name: "clamped limit", limit: 1000, wantLimit: MaxHistoryLimit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(MockUserRepository)
			evals := new(MockEvaluationRepository)
			users.On("GetByUsername", mock.Anything, testLearner).
				Return(&domain.User{ID: "user-1", Username: testLearner, TotalEvaluations: 4}, nil)
			evals.On("ListByUser", mock.Anything, "user-1", tt.wantLimit).Return(stored, nil)

			svc := NewHistoryService(users, evals, new(MockItemStatsRepository), validation.NewValidator())
			resp, err := svc.LearnerEvaluations(context.Background(), testLearner, tt.limit)
			require.NoError(t, err)

			assert.Equal(t, testLearner, resp.Learner)
			assert.Equal(t, 4, resp.TotalEvaluations)
			require.Len(t, resp.Evaluations, 1)
			got := resp.Evaluations[0]
			assert.Equal(t, "eval-2", got.ID)
			assert.Equal(t, 72.5, got.ScorePercentage)
			assert.Equal(t, evaluatedAt, got.EvaluatedAt)
			assert.Len(t, got.PerQuestion, 1)
			users.AssertExpectations(t)
			evals.AssertExpectations(t)
		})
	}
}

func TestHistoryService_LearnerEvaluations_Errors(t *testing.T) {
	t.Run("unknown learner", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("GetByUsername", mock.Anything, "Nobody").Return(nil, nil)
		svc := NewHistoryService(users, new(MockEvaluationRepository), new(MockItemStatsRepository), validation.NewValidator())

		_, err := svc.LearnerEvaluations(context.Background(), "Nobody", 0)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("repository failure", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("GetByUsername", mock.Anything, testLearner).Return(nil, errors.New("timeout"))
		svc := NewHistoryService(users, new(MockEvaluationRepository), new(MockItemStatsRepository), validation.NewValidator())

		_, err := svc.LearnerEvaluations(context.Background(), testLearner, 0)
		assert.ErrorIs(t, err, domain.ErrInternal)
	})

	t.Run("invalid learner name", func(t *testing.T) {
		svc := NewHistoryService(new(MockUserRepository), new(MockEvaluationRepository), new(MockItemStatsRepository), validation.NewValidator())
		_, err := svc.LearnerEvaluations(context.Background(), "", 0)
		var verrs domain.ValidationErrors
		assert.True(t, errors.As(err, &verrs))
	})
}

func TestHistoryService_ItemStats(t *testing.T) {
	stats := new(MockItemStatsRepository)
	updated := time.Date(2026, 5, 4, 14, 0, 0, 0, time.UTC)
	stats.On("Get", mock.Anything, "Impression 3D").Return(&domain.ItemStats{
		ItemName: "Impression 3D", TotalAttempts: 3, AverageScore: 66.67,
		TotalCorrectAnswers: 20, TotalQuestionsAttempted: 30, LastUpdated: updated,
	}, nil)
	stats.On("Get", mock.Anything, "Soudure").Return(nil, nil)

	svc := NewHistoryService(new(MockUserRepository), new(MockEvaluationRepository), stats, validation.NewValidator())

	resp, err := svc.ItemStats(context.Background(), "Impression 3D")
	require.NoError(t, err)
	assert.Equal(t, 3, resp.TotalAttempts)
	assert.Equal(t, 66.67, resp.AverageScore)
	assert.Equal(t, updated, resp.LastUpdated)

	_, err = svc.ItemStats(context.Background(), "Soudure")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.ItemStats(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestHealthService_Check(t *testing.T) {
	tests := []struct {
		name     string
		dbErr    error
		cacheErr error
		want     string
		wantDB   string
		wantRds  string
	}{
		{name: "all up", want: "ok", wantDB: "ok", wantRds: "ok"},
		{name: "database down", dbErr: errors.New("refused"), want: "degraded", wantDB: "down", wantRds: "ok"},
		{name: "cache down", cacheErr: errors.New("refused"), want: "degraded", wantDB: "ok", wantRds: "down"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := new(MockPinger)
			db.On("PingContext", mock.Anything).Return(tt.dbErr)
			cache := newMemoryCache()
			cache.PingErr = tt.cacheErr

			resp := NewHealthService(db, cache).Check(context.Background())
			assert.Equal(t, tt.want, resp.Status)
			assert.Equal(t, tt.wantDB, resp.Database)
			assert.Equal(t, tt.wantRds, resp.Cache)
		})
	}
}
