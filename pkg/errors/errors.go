package errors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrSchemaMissing codes 表不存在（数据库被重建或迁移未执行）
var ErrSchemaMissing = errors.New("codes 表不存在")

// PostgreSQL SQLSTATE
const (
	codeUniqueViolation = "23505"
	codeUndefinedTable  = "42P01"
)

// IsUniqueViolation 判断是否为唯一约束冲突
func IsUniqueViolation(err error) bool {
	return hasCode(err, codeUniqueViolation)
}

// IsUndefinedTable 判断是否为表不存在
func IsUndefinedTable(err error) bool {
	return hasCode(err, codeUndefinedTable)
}

func hasCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
