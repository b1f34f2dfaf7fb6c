package service

import (
	"go.uber.org/zap"

	"github.com/KingcleverFcl/wna-syte/config"
	"github.com/KingcleverFcl/wna-syte/internal/codegen"
	"github.com/KingcleverFcl/wna-syte/internal/repository"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Code CodeService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	logger *zap.Logger,
) *Service {
	return &Service{
		Code: NewCodeService(repo.Code, codegen.Default{}, cfg.Database.SelfHeal, logger),
	}
}
