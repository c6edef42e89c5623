package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"skill-assess/internal/domain"
	"skill-assess/internal/dto"
	"skill-assess/internal/evaluation"
	"skill-assess/internal/export"
	"skill-assess/internal/logger"
	"skill-assess/internal/session"
	"skill-assess/internal/util"
	"skill-assess/internal/validation"

	"go.uber.org/zap"
)

// SessionService drives assessment sessions on behalf of the HTTP layer. Sessions live in
// the SessionStore between requests; each call restores a private session.Session,
// applies one operation and saves it back.
type SessionService interface {
	ListItems(ctx context.Context, learner string) (*dto.ItemListResponse, error)
	StartSession(ctx context.Context, req *dto.StartSessionRequest) (*dto.SessionResponse, error)
	GetSession(ctx context.Context, sessionID string) (*dto.SessionResponse, error)
	CurrentQuestion(ctx context.Context, sessionID string) (*dto.QuestionView, error)
	SubmitAnswer(ctx context.Context, sessionID string, req *dto.SubmitAnswerRequest) (*dto.SessionResponse, error)
	Advance(ctx context.Context, sessionID string) (*dto.SessionResponse, error)
	Retreat(ctx context.Context, sessionID string) (*dto.SessionResponse, error)
	Restart(ctx context.Context, sessionID string) (*dto.SessionResponse, error)
	Abandon(ctx context.Context, sessionID string) error
	Summary(ctx context.Context, sessionID string) (*domain.EvaluationSummary, error)
	SummaryWorkbook(ctx context.Context, sessionID string) ([]byte, error)
}

type sessionService struct {
	catalog   domain.ItemCatalog
	store     domain.SessionStore
	validator *validation.Validator
	assembler *evaluation.Assembler
	recorder  EvaluationRecorder
	now       func() time.Time
}

func NewSessionService(
	catalog domain.ItemCatalog,
	store domain.SessionStore,
	validator *validation.Validator,
	assembler *evaluation.Assembler,
	recorder EvaluationRecorder,
) SessionService {
	return &sessionService{
		catalog:   catalog,
		store:     store,
		validator: validator,
		assembler: assembler,
		recorder:  recorder,
		now:       time.Now,
	}
}

// loaded is a restored session together with the identity fields of its snapshot.
type loaded struct {
	snap *domain.SessionSnapshot
	sess *session.Session
}

func (s *sessionService) load(ctx context.Context, sessionID string) (*loaded, error) {
	if errs := s.validator.ValidateSessionID(sessionID); len(errs) > 0 {
		return nil, errs
	}
	snap, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	item, err := s.catalog.Item(snap.ItemName)
	if err != nil {
		return nil, err
	}
	sess, err := session.Restore(item, snap)
	if err != nil {
		logger.Get().Error("Failed to restore session",
			zap.String("sessionID", sessionID), zap.String("item", snap.ItemName), zap.Error(err))
		return nil, err
	}
	return &loaded{snap: snap, sess: sess}, nil
}

func (s *sessionService) save(ctx context.Context, l *loaded) error {
	snap, err := l.sess.Snapshot()
	if err != nil {
		return domain.NewInternalError("failed to snapshot session", err)
	}
	snap.ID = l.snap.ID
	snap.Learner = l.snap.Learner
	snap.StartedAt = l.snap.StartedAt
	if err := s.store.Save(ctx, snap); err != nil {
		logger.Get().Error("Failed to save session", zap.String("sessionID", snap.ID), zap.Error(err))
		return domain.NewInternalError("failed to save session", err)
	}
	l.snap = snap
	return nil
}

// ListItems returns every item of the bank. With a learner, items that learner has
// already completed are flagged.
func (s *sessionService) ListItems(ctx context.Context, learner string) (*dto.ItemListResponse, error) {
	completed := map[string]bool{}
	if learner != "" {
		if errs := s.validator.ValidateLearner(learner); len(errs) > 0 {
			return nil, errs
		}
		done, err := s.store.CompletedItems(ctx, learner)
		if err != nil {
			logger.Get().Warn("Failed to load completed items", zap.String("learner", learner), zap.Error(err))
		} else {
			completed = done
		}
	}

	items := s.catalog.Items()
	resp := &dto.ItemListResponse{Items: make([]dto.ItemResponse, 0, len(items))}
	for _, item := range items {
		resp.Items = append(resp.Items, dto.ItemResponse{
			Name:          item.Name,
			QuestionCount: item.Len(),
			Completed:     completed[item.Name],
		})
	}
	return resp, nil
}

func (s *sessionService) StartSession(ctx context.Context, req *dto.StartSessionRequest) (*dto.SessionResponse, error) {
	if req == nil {
		return nil, domain.NewInvalidInputError("request is required")
	}
	if errs := s.validator.Struct(req); len(errs) > 0 {
		return nil, errs
	}

	item, err := s.catalog.Item(req.Item)
	if err != nil {
		return nil, err
	}
	sess, err := session.New(item)
	if err != nil {
		return nil, err
	}

	l := &loaded{
		snap: &domain.SessionSnapshot{
			ID:        util.NewULID(),
			Learner:   req.Learner,
			StartedAt: s.now().UTC(),
		},
		sess: sess,
	}
	if err := s.save(ctx, l); err != nil {
		return nil, err
	}

	logger.Get().Info("Session started",
		zap.String("sessionID", l.snap.ID),
		zap.String("learner", req.Learner),
		zap.String("item", item.Name))
	return s.toResponse(ctx, l, nil)
}

func (s *sessionService) GetSession(ctx context.Context, sessionID string) (*dto.SessionResponse, error) {
	l, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, l, nil)
}

func (s *sessionService) CurrentQuestion(ctx context.Context, sessionID string) (*dto.QuestionView, error) {
	l, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	q, err := l.sess.CurrentQuestion()
	if err != nil {
		return nil, err
	}
	stored, _ := l.sess.Answer(q.Index)
	return buildQuestionView(l.snap.ID, l.sess.Item().Len(), q, stored)
}

func (s *sessionService) SubmitAnswer(ctx context.Context, sessionID string, req *dto.SubmitAnswerRequest) (*dto.SessionResponse, error) {
	if req == nil {
		return nil, domain.NewInvalidInputError("request is required")
	}
	if errs := s.validator.Struct(req); len(errs) > 0 {
		return nil, errs
	}

	l, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if l.sess.IsCompleted() {
		return nil, domain.NewInvalidTransitionError("submit answer", "session is completed")
	}

	index := l.sess.CurrentIndex()
	if req.QuestionNumber > 0 {
		index = req.QuestionNumber - 1
	}
	q, ok := l.sess.Item().Question(index)
	if !ok {
		return nil, domain.NewInvalidTransitionError("submit answer", "question does not exist")
	}
	if current := l.sess.CurrentIndex(); index != current {
		return nil, domain.NewInvalidTransitionError("submit answer",
			fmt.Sprintf("question %d is not the current question (%d)", index+1, current+1))
	}

	answer, err := domain.DecodeAnswer(q.Type(), req.Answer)
	if err != nil {
		return nil, err
	}
	if err := l.sess.SubmitAnswer(index, answer); err != nil {
		return nil, err
	}
	if err := s.save(ctx, l); err != nil {
		return nil, err
	}
	return s.toResponse(ctx, l, nil)
}

// Advance moves to the next question. Advancing past the last question completes the
// session: the summary is assembled and handed to the recorder. A storage failure is
// reported in the response and never discards the summary.
func (s *sessionService) Advance(ctx context.Context, sessionID string) (*dto.SessionResponse, error) {
	l, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := l.sess.Advance(); err != nil {
		return nil, err
	}
	if err := s.save(ctx, l); err != nil {
		return nil, err
	}
	if !l.sess.IsCompleted() {
		return s.toResponse(ctx, l, nil)
	}

	for index, scoreErr := range l.sess.ScoringErrors() {
		logger.Get().Warn("Question could not be scored",
			zap.String("sessionID", l.snap.ID),
			zap.String("item", l.snap.ItemName),
			zap.Int("question", index+1),
			zap.Error(scoreErr))
	}

	summary, err := s.assembler.FromSession(l.sess)
	if err != nil {
		return nil, err
	}

	recordErr := s.recorder.Record(ctx, CompletedSession{
		SessionID:   l.snap.ID,
		Learner:     l.snap.Learner,
		StartedAt:   l.snap.StartedAt,
		CompletedAt: s.now().UTC(),
		Summary:     summary,
	})
	if recordErr != nil && !errors.Is(recordErr, domain.ErrPersistenceFailed) {
		return nil, recordErr
	}

	logger.Get().Info("Session completed",
		zap.String("sessionID", l.snap.ID),
		zap.String("learner", l.snap.Learner),
		zap.String("item", summary.ItemName),
		zap.Int("correct", summary.CorrectAnswers),
		zap.Float64("scorePercentage", summary.ScorePercentage))

	resp, err := s.toResponse(ctx, l, summary)
	if err != nil {
		return nil, err
	}
	if recordErr != nil {
		resp.PersistenceError = recordErr.Error()
	}
	return resp, nil
}

func (s *sessionService) Retreat(ctx context.Context, sessionID string) (*dto.SessionResponse, error) {
	l, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := l.sess.Retreat(); err != nil {
		return nil, err
	}
	if err := s.save(ctx, l); err != nil {
		return nil, err
	}
	return s.toResponse(ctx, l, nil)
}

// Restart begins a new attempt of the same item. The start time is reset.
func (s *sessionService) Restart(ctx context.Context, sessionID string) (*dto.SessionResponse, error) {
	l, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := l.sess.Restart(); err != nil {
		return nil, err
	}
	if err := s.store.DeleteSummary(ctx, l.snap.ID); err != nil {
		return nil, domain.NewInternalError("failed to clear previous summary", err)
	}
	l.snap.StartedAt = s.now().UTC()
	if err := s.save(ctx, l); err != nil {
		return nil, err
	}
	return s.toResponse(ctx, l, nil)
}

func (s *sessionService) Abandon(ctx context.Context, sessionID string) error {
	l, err := s.load(ctx, sessionID)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, l.snap.ID); err != nil {
		return domain.NewInternalError("failed to delete session", err)
	}
	logger.Get().Info("Session abandoned", zap.String("sessionID", l.snap.ID))
	return nil
}

func (s *sessionService) Summary(ctx context.Context, sessionID string) (*domain.EvaluationSummary, error) {
	l, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.summaryOf(ctx, l)
}

func (s *sessionService) SummaryWorkbook(ctx context.Context, sessionID string) ([]byte, error) {
	l, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	summary, err := s.summaryOf(ctx, l)
	if err != nil {
		return nil, err
	}
	data, err := export.SummaryWorkbook(summary, l.snap.Learner)
	if err != nil {
		return nil, domain.NewInternalError("failed to render workbook", err)
	}
	return data, nil
}

// summaryOf prefers the cached summary and rebuilds it from the restored session when the
// cache has none.
func (s *sessionService) summaryOf(ctx context.Context, l *loaded) (*domain.EvaluationSummary, error) {
	if !l.sess.IsCompleted() {
		return nil, domain.NewInvalidTransitionError("summary", "session is not completed")
	}
	cached, err := s.store.LoadSummary(ctx, l.snap.ID)
	if err != nil {
		logger.Get().Warn("Failed to load cached summary", zap.String("sessionID", l.snap.ID), zap.Error(err))
	}
	if cached != nil {
		return cached, nil
	}
	return s.assembler.FromSession(l.sess)
}

func (s *sessionService) toResponse(ctx context.Context, l *loaded, summary *domain.EvaluationSummary) (*dto.SessionResponse, error) {
	state, index := l.sess.State()
	resp := &dto.SessionResponse{
		SessionID:         l.snap.ID,
		Learner:           l.snap.Learner,
		ItemName:          l.sess.Item().Name,
		State:             string(state),
		TotalQuestions:    l.sess.Item().Len(),
		AnsweredQuestions: len(l.sess.Answers()),
		StartedAt:         l.snap.StartedAt,
		Summary:           summary,
	}
	if state == session.StateAwaitingAnswer {
		resp.CurrentQuestion = index + 1
	} else if resp.Summary == nil {
		sum, err := s.summaryOf(ctx, l)
		if err != nil {
			return nil, err
		}
		resp.Summary = sum
	}
	return resp, nil
}
