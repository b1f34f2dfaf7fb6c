package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/KingcleverFcl/wna-syte/config"
	"github.com/KingcleverFcl/wna-syte/internal/dto"
	"github.com/KingcleverFcl/wna-syte/internal/repository"
	"github.com/KingcleverFcl/wna-syte/internal/service"
	"github.com/KingcleverFcl/wna-syte/pkg/database"
	applogger "github.com/KingcleverFcl/wna-syte/pkg/logger"
)

// errInvalidCode check 命令失败时返回，使进程以 1 退出
var errInvalidCode = errors.New("invalid code")

// env 每个子命令共享的依赖
type env struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *gorm.DB
	repo   *repository.Repository
	svc    *service.Service
}

func (e *env) close() {
	if e.db != nil {
		_ = database.Close(e.db)
	}
	_ = e.logger.Sync()
}

// connect 加载配置并连接数据库
func connect(configPath string) (*env, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		return nil, err
	}
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		return nil, err
	}
	repo := repository.NewRepository(db)
	return &env{
		cfg:    cfg,
		logger: logger,
		db:     db,
		repo:   repo,
		svc:    service.NewService(cfg, repo, logger),
	}, nil
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "codectl",
		Short:         "管理已签发的访问码",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "YAML 配置文件路径（默认读取 CONFIG_FILE）")

	run := func(fn func(ctx context.Context, e *env, out io.Writer, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			e, err := connect(configPath)
			if err != nil {
				return err
			}
			defer e.close()
			return fn(cmd.Context(), e, cmd.OutOrStdout(), args)
		}
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "migrate",
			Short: "执行内嵌数据库迁移",
			Args:  cobra.NoArgs,
			RunE:  run(runMigrate),
		},
		&cobra.Command{
			Use:   "issue",
			Short: "签发一个新码并输出",
			Args:  cobra.NoArgs,
			RunE:  run(runIssue),
		},
		&cobra.Command{
			Use:   "check <code>",
			Short: "检查访问码是否已签发",
			Args:  cobra.ExactArgs(1),
			RunE:  run(runCheck),
		},
		&cobra.Command{
			Use:   "stats",
			Short: "输出已签发的访问码数量",
			Args:  cobra.NoArgs,
			RunE:  run(runStats),
		},
	)
	return root
}

func runMigrate(_ context.Context, e *env, out io.Writer, _ []string) error {
	sqlDB, err := e.db.DB()
	if err != nil {
		return err
	}
	version, err := database.RunMigrations(sqlDB, e.logger)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "migrations applied (version %d)\n", version)
	return nil
}

func runIssue(ctx context.Context, e *env, out io.Writer, _ []string) error {
	result, err := e.svc.Code.Issue(ctx)
	if err != nil {
		return err
	}
	return printIssue(out, result)
}

func runCheck(ctx context.Context, e *env, out io.Writer, args []string) error {
	result, err := e.svc.Code.Redeem(ctx, args[0])
	if err != nil {
		return err
	}
	return printRedeem(out, result)
}

func runStats(ctx context.Context, e *env, out io.Writer, _ []string) error {
	n, err := e.repo.Code.Count(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "issued codes: %d\n", n)
	return nil
}

func printIssue(out io.Writer, result *dto.IssueResult) error {
	switch result.Kind {
	case dto.IssueKindIssued:
		fmt.Fprintln(out, result.Code)
		return nil
	case dto.IssueKindDuplicate:
		return errors.New("generated code already exists, run again")
	case dto.IssueKindReinitialized:
		return errors.New("codes table was recreated, run again")
	default:
		return fmt.Errorf("unexpected issue result %q", result.Kind)
	}
}

func printRedeem(out io.Writer, result *dto.RedeemResult) error {
	switch result.Kind {
	case dto.RedeemKindFound:
		fmt.Fprintln(out, "valid")
		return nil
	case dto.RedeemKindRejected, dto.RedeemKindNotFound:
		return errInvalidCode
	case dto.RedeemKindReinitialized:
		return errors.New("codes table was recreated, run again")
	default:
		return fmt.Errorf("unexpected redeem result %q", result.Kind)
	}
}
