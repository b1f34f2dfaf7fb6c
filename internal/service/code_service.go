package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/KingcleverFcl/wna-syte/internal/codegen"
	"github.com/KingcleverFcl/wna-syte/internal/dto"
	"github.com/KingcleverFcl/wna-syte/internal/model"
	"github.com/KingcleverFcl/wna-syte/internal/repository"
	pkgerrors "github.com/KingcleverFcl/wna-syte/pkg/errors"
)

// CodeLength 合法访问码长度（字符数）
const CodeLength = codegen.DefaultLength

// CodeService 访问码业务接口
type CodeService interface {
	// Issue 生成并持久化一个新码
	Issue(ctx context.Context) (*dto.IssueResult, error)
	// Redeem 校验用户提交的码；返回 error 仅表示存储故障
	Redeem(ctx context.Context, candidate string) (*dto.RedeemResult, error)
}

type codeService struct {
	repo     repository.CodeRepository
	gen      codegen.Generator
	selfHeal bool
	logger   *zap.Logger
}

// NewCodeService 创建 CodeService 实例
func NewCodeService(
	repo repository.CodeRepository,
	gen codegen.Generator,
	selfHeal bool,
	logger *zap.Logger,
) CodeService {
	return &codeService{
		repo:     repo,
		gen:      gen,
		selfHeal: selfHeal,
		logger:   logger,
	}
}

func (s *codeService) Issue(ctx context.Context) (*dto.IssueResult, error) {
	value, err := s.gen.Generate()
	if err != nil {
		s.logger.Error("生成访问码失败", zap.Error(err))
		return nil, err
	}

	code := &model.Code{Code: value}
	outcome, err := s.repo.Issue(ctx, code)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrSchemaMissing) {
			if err := s.heal(ctx); err != nil {
				return nil, err
			}
			return &dto.IssueResult{Kind: dto.IssueKindReinitialized}, nil
		}
		s.logger.Error("写入访问码失败", zap.Error(err))
		return nil, err
	}

	switch outcome {
	case repository.IssueCreated:
		s.logger.Info("访问码已签发", zap.Int64("id", code.ID))
		return &dto.IssueResult{Kind: dto.IssueKindIssued, Code: code.Code}, nil
	case repository.IssueDuplicate:
		s.logger.Warn("访问码重复，未写入")
		return &dto.IssueResult{Kind: dto.IssueKindDuplicate}, nil
	default:
		return nil, fmt.Errorf("未知的写入结果: %v", outcome)
	}
}

func (s *codeService) Redeem(ctx context.Context, candidate string) (*dto.RedeemResult, error) {
	// 长度或字符集不符的输入不可能命中，直接拒绝，不访问存储
	if !codegen.Valid(candidate) {
		return &dto.RedeemResult{Kind: dto.RedeemKindRejected}, nil
	}

	found, err := s.repo.Exists(ctx, candidate)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrSchemaMissing) {
			if err := s.heal(ctx); err != nil {
				return nil, err
			}
			return &dto.RedeemResult{Kind: dto.RedeemKindReinitialized}, nil
		}
		s.logger.Error("查询访问码失败", zap.Error(err))
		return nil, err
	}

	if !found {
		return &dto.RedeemResult{Kind: dto.RedeemKindNotFound}, nil
	}
	return &dto.RedeemResult{Kind: dto.RedeemKindFound, Code: candidate}, nil
}

// heal 表缺失时按配置重建；关闭自愈时原样返回 ErrSchemaMissing
func (s *codeService) heal(ctx context.Context) error {
	if !s.selfHeal {
		s.logger.Error("codes 表不存在且未开启自愈")
		return pkgerrors.ErrSchemaMissing
	}

	s.logger.Warn("codes 表不存在，重新建表")
	if err := s.repo.EnsureSchema(ctx); err != nil {
		s.logger.Error("重新建表失败", zap.Error(err))
		return fmt.Errorf("%w: %v", pkgerrors.ErrSchemaMissing, err)
	}
	return nil
}
