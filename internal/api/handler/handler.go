package handler

import (
	"context"

	"go.uber.org/zap"

	"github.com/KingcleverFcl/wna-syte/internal/service"
	"github.com/KingcleverFcl/wna-syte/pkg/session"
)

// Pinger 数据库连通性检查
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Code   *CodeHandler
	Health *HealthHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service, db Pinger, flashes *session.Store, logger *zap.Logger) *Handler {
	return &Handler{
		Code:   NewCodeHandler(svc.Code, flashes, logger),
		Health: NewHealthHandler(db),
	}
}
