package service

import (
	"context"
	"time"

	"skill-assess/internal/domain"
	"skill-assess/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// CompletedSession is everything recorded when a learner finishes an item.
type CompletedSession struct {
	SessionID   string
	Learner     string
	StartedAt   time.Time
	CompletedAt time.Time
	Summary     *domain.EvaluationSummary
}

// EvaluationRecorder stores completed sessions and notifies the rest of the system.
type EvaluationRecorder interface {
	// Record persists the evaluation. A storage failure is returned as PersistenceFailed;
	// the summary cache and learner progress are written regardless.
	Record(ctx context.Context, completed CompletedSession) error
}

type evaluationRecorder struct {
	txManager domain.TransactionManager
	users     domain.UserRepository
	evals     domain.EvaluationRepository
	stats     domain.ItemStatsRepository
	store     domain.SessionStore
	publisher domain.EventPublisher
}

func NewEvaluationRecorder(
	txManager domain.TransactionManager,
	users domain.UserRepository,
	evals domain.EvaluationRepository,
	stats domain.ItemStatsRepository,
	store domain.SessionStore,
	publisher domain.EventPublisher,
) EvaluationRecorder {
	return &evaluationRecorder{
		txManager: txManager,
		users:     users,
		evals:     evals,
		stats:     stats,
		store:     store,
		publisher: publisher,
	}
}

func (r *evaluationRecorder) Record(ctx context.Context, completed CompletedSession) error {
	if completed.Summary == nil {
		return domain.NewInvalidInputError("summary is required")
	}

	evaluationID, persistErr := r.persist(ctx, completed)
	if persistErr != nil {
		logger.Get().Error("Failed to persist evaluation",
			zap.String("sessionID", completed.SessionID),
			zap.String("learner", completed.Learner),
			zap.String("item", completed.Summary.ItemName),
			zap.Error(persistErr))
	}

	r.fanOut(ctx, completed, evaluationID)

	if persistErr != nil {
		return domain.NewPersistenceFailedError(persistErr)
	}
	return nil
}

// persist runs create_or_get_user, save_evaluation and the item aggregate update in one
// transaction.
func (r *evaluationRecorder) persist(ctx context.Context, completed CompletedSession) (string, error) {
	evaluation := &domain.Evaluation{
		Summary:         *completed.Summary,
		EvaluatedAt:     completed.CompletedAt,
		DurationMinutes: durationMinutes(completed.StartedAt, completed.CompletedAt),
	}

	err := r.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		user, err := r.users.CreateOrGet(txCtx, completed.Learner)
		if err != nil {
			return err
		}
		evaluation.UserID = user.ID

		if err := r.evals.Save(txCtx, evaluation); err != nil {
			return err
		}

		s := completed.Summary
		return r.stats.Update(txCtx, s.ItemName, s.TotalQuestions, s.CorrectAnswers, s.ScorePercentage)
	})
	if err != nil {
		return "", err
	}
	return evaluation.ID, nil
}

// fanOut publishes the completion event and refreshes the cached summary and learner
// progress concurrently. Failures are logged only.
func (r *evaluationRecorder) fanOut(ctx context.Context, completed CompletedSession, evaluationID string) {
	s := completed.Summary
	g, gctx := errgroup.WithContext(ctx)

	if evaluationID != "" {
		g.Go(func() error {
			event := domain.EvaluationCompletedEvent{
				SessionID:       completed.SessionID,
				EvaluationID:    evaluationID,
				Learner:         completed.Learner,
				ItemName:        s.ItemName,
				TotalQuestions:  s.TotalQuestions,
				CorrectAnswers:  s.CorrectAnswers,
				ScorePercentage: s.ScorePercentage,
				CompletedAt:     completed.CompletedAt,
			}
			if err := r.publisher.PublishEvaluationCompleted(gctx, event); err != nil {
				logger.Get().Warn("Failed to publish evaluation completed event",
					zap.String("sessionID", completed.SessionID), zap.Error(err))
			}
			return nil
		})
	}

	g.Go(func() error {
		if err := r.store.SaveSummary(gctx, completed.SessionID, s); err != nil {
			logger.Get().Warn("Failed to cache evaluation summary",
				zap.String("sessionID", completed.SessionID), zap.Error(err))
		}
		return nil
	})

	g.Go(func() error {
		if err := r.store.MarkItemCompleted(gctx, completed.Learner, s.ItemName); err != nil {
			logger.Get().Warn("Failed to record completed item",
				zap.String("learner", completed.Learner),
				zap.String("item", s.ItemName), zap.Error(err))
		}
		return nil
	})

	_ = g.Wait()
}

func durationMinutes(start, end time.Time) float64 {
	if start.IsZero() || end.Before(start) {
		return 0
	}
	return end.Sub(start).Minutes()
}
