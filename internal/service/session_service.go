package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

var ErrRevocationUnavailable = errors.New("Token 注销暂不可用")

// TokenRevoker Token 黑名单写入端
type TokenRevoker interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
}

// SessionService 会话注销
// Token 由外部认证服务签发，这里只负责在本服务内吊销
type SessionService interface {
	// Logout 将 jti 加入黑名单直到 Token 自然过期
	Logout(ctx context.Context, jti string, expiresAt time.Time) error
}

type sessionService struct {
	revoker TokenRevoker
	logger  *zap.Logger
	now     func() time.Time
}

// NewSessionService 创建 SessionService 实例；revoker 为 nil 时注销不可用
func NewSessionService(revoker TokenRevoker, logger *zap.Logger) SessionService {
	return &sessionService{revoker: revoker, logger: logger, now: time.Now}
}

func (s *sessionService) Logout(ctx context.Context, jti string, expiresAt time.Time) error {
	if s.revoker == nil {
		return ErrRevocationUnavailable
	}
	ttl := expiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	if err := s.revoker.BlacklistToken(ctx, jti, ttl); err != nil {
		s.logger.Warn("写入 Token 黑名单失败", zap.String("jti", jti), zap.Error(err))
		return ErrRevocationUnavailable
	}
	return nil
}
