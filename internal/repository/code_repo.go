package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/KingcleverFcl/wna-syte/internal/model"
	"github.com/KingcleverFcl/wna-syte/pkg/database"
	pkgerrors "github.com/KingcleverFcl/wna-syte/pkg/errors"
)

// IssueOutcome 插入结果
type IssueOutcome int

const (
	// IssueCreated 插入成功
	IssueCreated IssueOutcome = iota + 1
	// IssueDuplicate 唯一约束冲突，未写入
	IssueDuplicate
)

func (o IssueOutcome) String() string {
	switch o {
	case IssueCreated:
		return "created"
	case IssueDuplicate:
		return "duplicate"
	default:
		return fmt.Sprintf("IssueOutcome(%d)", int(o))
	}
}

// CodeRepository 访问码数据访问接口
type CodeRepository interface {
	// Issue 插入新码，唯一性由数据库约束保证
	Issue(ctx context.Context, code *model.Code) (IssueOutcome, error)
	// Exists 仅返回是否存在，不返回任何行数据
	Exists(ctx context.Context, value string) (bool, error)
	Count(ctx context.Context) (int64, error)
	// EnsureSchema 幂等建表
	EnsureSchema(ctx context.Context) error
}

type codeRepo struct {
	db *gorm.DB
}

// NewCodeRepo 创建 CodeRepository 实例
func NewCodeRepo(db *gorm.DB) CodeRepository {
	return &codeRepo{db: db}
}

func (r *codeRepo) Issue(ctx context.Context, code *model.Code) (IssueOutcome, error) {
	err := r.db.WithContext(ctx).
		Raw("INSERT INTO codes (code) VALUES (?) RETURNING id, created_at", code.Code).
		Scan(code).Error
	switch {
	case err == nil:
		return IssueCreated, nil
	case pkgerrors.IsUniqueViolation(err):
		return IssueDuplicate, nil
	case pkgerrors.IsUndefinedTable(err):
		return 0, pkgerrors.ErrSchemaMissing
	default:
		return 0, fmt.Errorf("插入访问码失败: %w", err)
	}
}

func (r *codeRepo) Exists(ctx context.Context, value string) (bool, error) {
	var exists bool
	err := r.db.WithContext(ctx).
		Raw("SELECT EXISTS(SELECT 1 FROM codes WHERE code = ?)", value).
		Scan(&exists).Error
	if err != nil {
		if pkgerrors.IsUndefinedTable(err) {
			return false, pkgerrors.ErrSchemaMissing
		}
		return false, fmt.Errorf("查询访问码失败: %w", err)
	}
	return exists, nil
}

func (r *codeRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Code{}).Count(&n).Error
	if err != nil {
		if pkgerrors.IsUndefinedTable(err) {
			return 0, pkgerrors.ErrSchemaMissing
		}
		return 0, fmt.Errorf("统计访问码失败: %w", err)
	}
	return n, nil
}

func (r *codeRepo) EnsureSchema(ctx context.Context) error {
	return database.EnsureSchema(ctx, r.db)
}
