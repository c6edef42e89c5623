package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"skill-assess/internal/cache"
	"skill-assess/internal/config"
	"skill-assess/internal/domain"
)

// CacheSessionStore implements domain.SessionStore as JSON documents in a domain.Cache.
type CacheSessionStore struct {
	cache       domain.Cache
	sessionTTL  time.Duration
	summaryTTL  time.Duration
	progressTTL time.Duration
	now         func() time.Time
}

func NewCacheSessionStore(c domain.Cache, cfg config.EvaluationConfig) *CacheSessionStore {
	return &CacheSessionStore{
		cache:       c,
		sessionTTL:  cfg.SessionTTL,
		summaryTTL:  cfg.SummaryTTL,
		progressTTL: cfg.ProgressTTL,
		now:         time.Now,
	}
}

var _ domain.SessionStore = (*CacheSessionStore)(nil)

// Save refreshes the session expiry on every write.
func (s *CacheSessionStore) Save(ctx context.Context, snapshot *domain.SessionSnapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode session %s: %w", snapshot.ID, err)
	}
	if err := s.cache.Set(ctx, cache.SessionStateKey(snapshot.ID), string(data), s.sessionTTL); err != nil {
		return fmt.Errorf("failed to store session %s: %w", snapshot.ID, err)
	}
	return nil
}

// Load returns a SessionNotFound error for unknown or expired sessions.
func (s *CacheSessionStore) Load(ctx context.Context, sessionID string) (*domain.SessionSnapshot, error) {
	data, err := s.cache.Get(ctx, cache.SessionStateKey(sessionID))
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			return nil, domain.NewSessionNotFoundError(sessionID)
		}
		return nil, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}
	var snapshot domain.SessionSnapshot
	if err := json.Unmarshal([]byte(data), &snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode session %s: %w", sessionID, err)
	}
	return &snapshot, nil
}

// Delete removes the session and its summary.
func (s *CacheSessionStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.cache.Delete(ctx, cache.SessionStateKey(sessionID)); err != nil {
		return fmt.Errorf("failed to delete session %s: %w", sessionID, err)
	}
	return s.DeleteSummary(ctx, sessionID)
}

// DeleteSummary drops the cached summary of a session that is about to be retaken.
func (s *CacheSessionStore) DeleteSummary(ctx context.Context, sessionID string) error {
	if err := s.cache.Delete(ctx, cache.SessionSummaryKey(sessionID)); err != nil {
		return fmt.Errorf("failed to delete summary of session %s: %w", sessionID, err)
	}
	return nil
}

func (s *CacheSessionStore) SaveSummary(ctx context.Context, sessionID string, summary *domain.EvaluationSummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to encode summary of session %s: %w", sessionID, err)
	}
	if err := s.cache.Set(ctx, cache.SessionSummaryKey(sessionID), string(data), s.summaryTTL); err != nil {
		return fmt.Errorf("failed to store summary of session %s: %w", sessionID, err)
	}
	return nil
}

// LoadSummary returns (nil, nil) when no summary is stored.
func (s *CacheSessionStore) LoadSummary(ctx context.Context, sessionID string) (*domain.EvaluationSummary, error) {
	data, err := s.cache.Get(ctx, cache.SessionSummaryKey(sessionID))
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load summary of session %s: %w", sessionID, err)
	}
	var summary domain.EvaluationSummary
	if err := json.Unmarshal([]byte(data), &summary); err != nil {
		return nil, fmt.Errorf("failed to decode summary of session %s: %w", sessionID, err)
	}
	return &summary, nil
}

// MarkItemCompleted records the completion time of itemName for learner.
func (s *CacheSessionStore) MarkItemCompleted(ctx context.Context, learner, itemName string) error {
	key := cache.LearnerCompletedKey(learner)
	if err := s.cache.HSet(ctx, key, itemName, s.now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("failed to mark %s completed for %s: %w", itemName, learner, err)
	}
	if s.progressTTL > 0 {
		if err := s.cache.Expire(ctx, key, s.progressTTL); err != nil {
			return fmt.Errorf("failed to set progress expiry for %s: %w", learner, err)
		}
	}
	return nil
}

func (s *CacheSessionStore) CompletedItems(ctx context.Context, learner string) (map[string]bool, error) {
	fields, err := s.cache.HGetAll(ctx, cache.LearnerCompletedKey(learner))
	if err != nil {
		return nil, fmt.Errorf("failed to load progress of %s: %w", learner, err)
	}
	completed := make(map[string]bool, len(fields))
	for item := range fields {
		completed[item] = true
	}
	return completed, nil
}
