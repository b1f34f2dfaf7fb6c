package router

import (
	"html/template"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/KingcleverFcl/wna-syte/config"
	"github.com/KingcleverFcl/wna-syte/internal/api/handler"
	"github.com/KingcleverFcl/wna-syte/internal/api/middleware"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, pages *template.Template, logger *zap.Logger) *gin.Engine {
	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))

	r.SetHTMLTemplate(pages)

	// ── 健康检查 ──
	r.GET("/health", h.Health.Check)

	// ── 页面 ──
	r.GET("/", h.Code.Index)
	r.POST("/", h.Code.Generate)
	r.POST("/login", h.Code.Login)

	return r
}
