package service

import (
	"context"

	"skill-assess/internal/domain"
	"skill-assess/internal/dto"
	"skill-assess/internal/logger"

	"go.uber.org/zap"
)

const (
	statusOK       = "ok"
	statusDegraded = "degraded"
	statusDown     = "down"
)

// Pinger is satisfied by *sqlx.DB and *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthService interface {
	Check(ctx context.Context) *dto.HealthResponse
}

type healthService struct {
	db    Pinger
	cache domain.Cache
}

func NewHealthService(db Pinger, cache domain.Cache) HealthService {
	return &healthService{db: db, cache: cache}
}

// Check pings the database and the cache. The service is degraded when either is down.
func (s *healthService) Check(ctx context.Context) *dto.HealthResponse {
	resp := &dto.HealthResponse{Status: statusOK, Database: statusOK, Cache: statusOK}

	if err := s.db.PingContext(ctx); err != nil {
		logger.Get().Warn("Database health check failed", zap.Error(err))
		resp.Database = statusDown
		resp.Status = statusDegraded
	}
	if err := s.cache.Ping(ctx); err != nil {
		logger.Get().Warn("Cache health check failed", zap.Error(err))
		resp.Cache = statusDown
		resp.Status = statusDegraded
	}
	return resp
}
