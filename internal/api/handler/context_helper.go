package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/UmaaSadii/ICMS/internal/api/middleware"
	"github.com/UmaaSadii/ICMS/pkg/response"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果 JWT 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	s := c.GetString(middleware.CtxUserID)
	if s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// mustParam 读取非空路径参数
func mustParam(c *gin.Context, name, message string) (string, bool) {
	v := c.Param(name)
	if v == "" {
		response.BadRequest(c, 10001, message)
		return "", false
	}
	return v, true
}
