package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/KingcleverFcl/wna-syte/pkg/response"
)

// HealthHandler 健康检查
type HealthHandler struct {
	db Pinger
}

// NewHealthHandler 创建 HealthHandler
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

// Check 数据库可达时返回 ok
// GET /health
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		_ = c.Error(err)
		response.ServiceUnavailable(c, gin.H{"status": "unavailable"})
		return
	}
	response.OK(c, gin.H{"status": "ok"})
}
