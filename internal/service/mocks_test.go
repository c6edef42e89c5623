package service

import (
	"context"
	"sync"
	"time"

	"skill-assess/internal/domain"

	"github.com/stretchr/testify/mock"
)

// --- memoryCache ---

// memoryCache is a domain.Cache kept in process memory. Expirations are ignored.
type memoryCache struct {
	mu      sync.Mutex
	values  map[string]string
	hashes  map[string]map[string]string
	PingErr error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{values: map[string]string{}, hashes: map[string]map[string]string{}}
}

func (c *memoryCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.values[key]
	if !ok {
		return "", domain.ErrCacheMiss
	}
	return v, nil
}

func (c *memoryCache) Set(_ context.Context, key string, value string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value
	return nil
}

func (c *memoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.values, key)
	delete(c.hashes, key)
	return nil
}

func (c *memoryCache) Ping(_ context.Context) error {
	return c.PingErr
}

func (c *memoryCache) HGetAll(_ context.Context, key string) (map[string]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := map[string]string{}
	for k, v := range c.hashes[key] {
		out[k] = v
	}
	return out, nil
}

func (c *memoryCache) HSet(_ context.Context, key string, field string, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.hashes[key] == nil {
		c.hashes[key] = map[string]string{}
	}
	c.hashes[key][field] = value
	return nil
}

func (c *memoryCache) Expire(_ context.Context, _ string, _ time.Duration) error {
	return nil
}

// --- MockEvaluationRecorder ---
type MockEvaluationRecorder struct {
	mock.Mock
}

func (m *MockEvaluationRecorder) Record(ctx context.Context, completed CompletedSession) error {
	args := m.Called(ctx, completed)
	return args.Error(0)
}

// --- MockTransactionManager ---

// MockTransactionManager runs fn directly, without a database.
type MockTransactionManager struct {
	mock.Mock
}

func (m *MockTransactionManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(ctx)
}

// --- MockUserRepository ---
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateOrGet(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// --- MockEvaluationRepository ---
type MockEvaluationRepository struct {
	mock.Mock
}

func (m *MockEvaluationRepository) Save(ctx context.Context, evaluation *domain.Evaluation) error {
	args := m.Called(ctx, evaluation)
	if evaluation.ID == "" && args.Error(0) == nil {
		evaluation.ID = "01J00000000000000000000000"
	}
	return args.Error(0)
}

func (m *MockEvaluationRepository) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Evaluation, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Evaluation), args.Error(1)
}

// --- MockItemStatsRepository ---
type MockItemStatsRepository struct {
	mock.Mock
}

func (m *MockItemStatsRepository) Update(ctx context.Context, itemName string, totalQuestions, correctAnswers int, scorePercentage float64) error {
	args := m.Called(ctx, itemName, totalQuestions, correctAnswers, scorePercentage)
	return args.Error(0)
}

func (m *MockItemStatsRepository) Get(ctx context.Context, itemName string) (*domain.ItemStats, error) {
	args := m.Called(ctx, itemName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ItemStats), args.Error(1)
}

// --- MockSessionStore ---
type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) Save(ctx context.Context, snapshot *domain.SessionSnapshot) error {
	return m.Called(ctx, snapshot).Error(0)
}

func (m *MockSessionStore) Load(ctx context.Context, sessionID string) (*domain.SessionSnapshot, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SessionSnapshot), args.Error(1)
}

func (m *MockSessionStore) Delete(ctx context.Context, sessionID string) error {
	return m.Called(ctx, sessionID).Error(0)
}

func (m *MockSessionStore) SaveSummary(ctx context.Context, sessionID string, summary *domain.EvaluationSummary) error {
	return m.Called(ctx, sessionID, summary).Error(0)
}

func (m *MockSessionStore) LoadSummary(ctx context.Context, sessionID string) (*domain.EvaluationSummary, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EvaluationSummary), args.Error(1)
}

func (m *MockSessionStore) DeleteSummary(ctx context.Context, sessionID string) error {
	return m.Called(ctx, sessionID).Error(0)
}

func (m *MockSessionStore) MarkItemCompleted(ctx context.Context, learner, itemName string) error {
	return m.Called(ctx, learner, itemName).Error(0)
}

func (m *MockSessionStore) CompletedItems(ctx context.Context, learner string) (map[string]bool, error) {
	args := m.Called(ctx, learner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]bool), args.Error(1)
}

// --- MockEventPublisher ---
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishEvaluationCompleted(ctx context.Context, event domain.EvaluationCompletedEvent) error {
	return m.Called(ctx, event).Error(0)
}

func (m *MockEventPublisher) Close() error {
	return m.Called().Error(0)
}

// --- MockPinger ---
type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) PingContext(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
