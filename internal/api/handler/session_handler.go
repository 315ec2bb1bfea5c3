package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/UmaaSadii/ICMS/internal/api/middleware"
	"github.com/UmaaSadii/ICMS/internal/service"
	"github.com/UmaaSadii/ICMS/pkg/response"
)

// SessionHandler 会话 HTTP 处理器
type SessionHandler struct {
	sessionSvc service.SessionService
}

// NewSessionHandler 创建 SessionHandler
func NewSessionHandler(sessionSvc service.SessionService) *SessionHandler {
	return &SessionHandler{sessionSvc: sessionSvc}
}

// Logout 吊销当前 Token
// POST /api/v1/auth/logout
func (h *SessionHandler) Logout(c *gin.Context) {
	jti := c.GetString(middleware.CtxTokenID)
	if jti == "" {
		response.Unauthorized(c, 10002, "Token 缺少 jti")
		return
	}

	if err := h.sessionSvc.Logout(c.Request.Context(), jti, c.GetTime(middleware.CtxTokenExp)); err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, nil)
}
