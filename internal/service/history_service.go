package service

import (
	"context"
	"errors"

	"skill-assess/internal/domain"
	"skill-assess/internal/dto"
	"skill-assess/internal/logger"
	"skill-assess/internal/validation"

	"go.uber.org/zap"
)

const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

// HistoryService reads stored evaluations back for the dashboard.
type HistoryService interface {
	LearnerEvaluations(ctx context.Context, learner string, limit int) (*dto.EvaluationListResponse, error)
	ItemStats(ctx context.Context, itemName string) (*dto.ItemStatsResponse, error)
}

type historyService struct {
	users     domain.UserRepository
	evals     domain.EvaluationRepository
	stats     domain.ItemStatsRepository
	validator *validation.Validator
}

func NewHistoryService(
	users domain.UserRepository,
	evals domain.EvaluationRepository,
	stats domain.ItemStatsRepository,
	validator *validation.Validator,
) HistoryService {
	return &historyService{users: users, evals: evals, stats: stats, validator: validator}
}

// LearnerEvaluations lists the learner's evaluations, newest first. limit is clamped to
// [1, MaxHistoryLimit]; 0 means DefaultHistoryLimit.
func (s *historyService) LearnerEvaluations(ctx context.Context, learner string, limit int) (*dto.EvaluationListResponse, error) {
	if errs := s.validator.ValidateLearner(learner); len(errs) > 0 {
		return nil, errs
	}
	switch {
	case limit <= 0:
		limit = DefaultHistoryLimit
	case limit > MaxHistoryLimit:
		limit = MaxHistoryLimit
	}

	user, err := s.users.GetByUsername(ctx, learner)
	if err != nil {
		return nil, internalUnlessDomain("failed to load learner", err)
	}
	if user == nil {
		return nil, domain.NewNotFoundError("learner not found").WithContext("learner", learner)
	}

	evaluations, err := s.evals.ListByUser(ctx, user.ID, limit)
	if err != nil {
		logger.Get().Error("Failed to list evaluations", zap.String("learner", learner), zap.Error(err))
		return nil, internalUnlessDomain("failed to list evaluations", err)
	}

	resp := &dto.EvaluationListResponse{
		Learner:          user.Username,
		TotalEvaluations: user.TotalEvaluations,
		Evaluations:      make([]dto.EvaluationResponse, 0, len(evaluations)),
	}
	for _, e := range evaluations {
		resp.Evaluations = append(resp.Evaluations, dto.EvaluationResponse{
			ID:              e.ID,
			ItemName:        e.Summary.ItemName,
			TotalQuestions:  e.Summary.TotalQuestions,
			CorrectAnswers:  e.Summary.CorrectAnswers,
			ScorePercentage: e.Summary.ScorePercentage,
			EvaluatedAt:     e.EvaluatedAt,
			DurationMinutes: e.DurationMinutes,
			PerQuestion:     e.Summary.PerQuestion,
		})
	}
	return resp, nil
}

func (s *historyService) ItemStats(ctx context.Context, itemName string) (*dto.ItemStatsResponse, error) {
	if itemName == "" {
		return nil, domain.NewInvalidInputError("item name is required")
	}
	stats, err := s.stats.Get(ctx, itemName)
	if err != nil {
		return nil, internalUnlessDomain("failed to load item statistics", err)
	}
	if stats == nil {
		return nil, domain.NewNotFoundError("no statistics for item").WithContext("item", itemName)
	}
	return &dto.ItemStatsResponse{
		ItemName:                stats.ItemName,
		TotalAttempts:           stats.TotalAttempts,
		AverageScore:            stats.AverageScore,
		TotalCorrectAnswers:     stats.TotalCorrectAnswers,
		TotalQuestionsAttempted: stats.TotalQuestionsAttempted,
		LastUpdated:             stats.LastUpdated,
	}, nil
}

func internalUnlessDomain(message string, err error) error {
	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		return err
	}
	return domain.NewInternalError(message, err)
}
