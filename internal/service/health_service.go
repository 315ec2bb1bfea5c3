package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/UmaaSadii/ICMS/internal/dto"
	"github.com/UmaaSadii/ICMS/internal/repository"
)

const healthCheckTimeout = 2 * time.Second

// Pinger 可探活的外部依赖
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthService 健康检查
type HealthService interface {
	// Check 探测数据库与 Redis；任一不可用时 Healthy 为 false
	Check(ctx context.Context) *dto.HealthResponse
}

type healthService struct {
	repo   *repository.Repository
	cache  Pinger
	logger *zap.Logger
}

// NewHealthService 创建 HealthService 实例
func NewHealthService(repo *repository.Repository, cache Pinger, logger *zap.Logger) HealthService {
	return &healthService{repo: repo, cache: cache, logger: logger}
}

func (s *healthService) Check(ctx context.Context) *dto.HealthResponse {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	resp := &dto.HealthResponse{Status: "ok", Checks: map[string]string{}, LatencyMS: map[string]int64{}}

	start := time.Now()
	err := s.repo.Ping(ctx)
	resp.LatencyMS["database"] = time.Since(start).Milliseconds()
	if err != nil {
		s.logger.Warn("数据库健康检查失败", zap.Error(err))
		resp.Checks["database"] = "down"
		resp.Status = "degraded"
	} else {
		resp.Checks["database"] = "up"
	}

	if s.cache == nil {
		resp.Checks["redis"] = "disabled"
	} else {
		start = time.Now()
		err = s.cache.Ping(ctx)
		resp.LatencyMS["redis"] = time.Since(start).Milliseconds()
		if err != nil {
			s.logger.Warn("Redis 健康检查失败", zap.Error(err))
			resp.Checks["redis"] = "down"
			resp.Status = "degraded"
		} else {
			resp.Checks["redis"] = "up"
		}
	}

	resp.Healthy = resp.Status == "ok"
	return resp
}
