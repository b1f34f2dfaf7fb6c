package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// schemaFile 建表语句，与首个迁移共用
const schemaFile = "migrations/000001_create_codes.up.sql"

// RunMigrations 执行数据库迁移并返回当前版本
// codes 的迁移语句均幂等，dirty 状态回退到上一版本后重跑即可恢复
func RunMigrations(db *sql.DB, logger *zap.Logger) (uint, error) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return 0, fmt.Errorf("加载迁移文件失败: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return 0, fmt.Errorf("创建迁移驱动失败: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return 0, fmt.Errorf("初始化迁移实例失败: %w", err)
	}

	err = m.Up()
	var dirty migrate.ErrDirty
	if errors.As(err, &dirty) {
		target, ferr := forceTarget(src, uint(dirty.Version))
		if ferr != nil {
			return 0, ferr
		}
		logger.Warn("迁移处于 dirty 状态，回退后重跑",
			zap.Int("dirty_version", dirty.Version),
			zap.Int("force_version", target),
		)
		if err := m.Force(target); err != nil {
			return 0, fmt.Errorf("回退迁移版本失败: %w", err)
		}
		err = m.Up()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("执行迁移失败: %w", err)
	}

	version, _, err := m.Version()
	if err != nil {
		return 0, fmt.Errorf("读取迁移版本失败: %w", err)
	}
	logger.Info("数据库迁移完成", zap.Uint("version", version))
	return version, nil
}

// forceTarget 返回 dirty 版本的上一版本，首个迁移对应 NilVersion
func forceTarget(src source.Driver, dirty uint) (int, error) {
	prev, err := src.Prev(dirty)
	if errors.Is(err, os.ErrNotExist) {
		return migratedb.NilVersion, nil
	}
	if err != nil {
		return 0, fmt.Errorf("查找上一迁移版本失败: %w", err)
	}
	return int(prev), nil
}

// EnsureSchema 幂等地创建 codes 表
// 表被外部删除后迁移记录仍在，因此直接执行建表语句而非 m.Up()
func EnsureSchema(ctx context.Context, db *gorm.DB) error {
	ddl, err := migrationsFS.ReadFile(schemaFile)
	if err != nil {
		return fmt.Errorf("读取建表语句失败: %w", err)
	}
	if err := db.WithContext(ctx).Exec(string(ddl)).Error; err != nil {
		return fmt.Errorf("创建 codes 表失败: %w", err)
	}
	return nil
}
