package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/UmaaSadii/ICMS/pkg/jwt"
	"github.com/UmaaSadii/ICMS/pkg/redis"
	"github.com/UmaaSadii/ICMS/pkg/response"
)

// 上下文键
const (
	CtxUserID    = "user_id"
	CtxRole      = "role"
	CtxStudentID = "student_id"
	CtxTokenID   = "token_jti"
	CtxTokenExp  = "token_exp"
)

// JWTAuth JWT 认证中间件
// 从 Authorization: Bearer <token> 中提取并验证 Access Token，并检查 Redis 黑名单
// rdb 为 nil 或 Redis 出错时跳过黑名单检查
func JWTAuth(jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, 10002, "缺少认证头")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, 10002, "认证头格式无效")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(parts[1])
		if err != nil {
			response.Unauthorized(c, 10002, "Token 无效或已过期")
			c.Abort()
			return
		}

		if rdb != nil && claims.ID != "" {
			revoked, err := rdb.IsBlacklisted(c.Request.Context(), claims.ID)
			if err != nil {
				logger.Warn("检查 Token 黑名单失败，降级放行", zap.Error(err))
			} else if revoked {
				response.Unauthorized(c, 10002, "Token 已注销")
				c.Abort()
				return
			}
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxRole, claims.Role)
		c.Set(CtxStudentID, claims.StudentID)
		c.Set(CtxTokenID, claims.ID)
		if claims.ExpiresAt != nil {
			c.Set(CtxTokenExp, claims.ExpiresAt.Time)
		}

		c.Next()
	}
}

// RoleAuth 角色权限中间件
// 检查当前用户是否具有指定角色之一
func RoleAuth(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole := c.GetString(CtxRole)
		if userRole == "" {
			response.Unauthorized(c, 10002, "未认证")
			c.Abort()
			return
		}

		for _, r := range allowedRoles {
			if userRole == r {
				c.Next()
				return
			}
		}

		response.Forbidden(c, 10003, "无权限访问")
		c.Abort()
	}
}

// StudentSelf 学生角色只能访问路径参数 param 指向的本人数据；其他角色放行
func StudentSelf(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(CtxRole) != jwt.RoleStudent {
			c.Next()
			return
		}
		own := c.GetString(CtxStudentID)
		if own == "" || !strings.EqualFold(own, c.Param(param)) {
			response.Forbidden(c, 10003, "只能访问本人数据")
			c.Abort()
			return
		}
		c.Next()
	}
}
