package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/KingcleverFcl/wna-syte/internal/dto"
	"github.com/KingcleverFcl/wna-syte/internal/service"
	"github.com/KingcleverFcl/wna-syte/pkg/response"
	"github.com/KingcleverFcl/wna-syte/pkg/session"
)

// 页面提示文案
// 长度不符与码不存在共用同一条提示
const (
	MsgDuplicate     = "Generation error, please try again"
	MsgInvalidCode   = "Invalid code"
	MsgReinitialized = "Service is being initialized, please try again"
	MsgFailure       = "Something went wrong, please try again later"
)

const pageTitle = "Access codes"

// CodeHandler 访问码页面处理器
type CodeHandler struct {
	codeSvc service.CodeService
	flashes *session.Store
	logger  *zap.Logger
}

// NewCodeHandler 创建 CodeHandler
func NewCodeHandler(codeSvc service.CodeService, flashes *session.Store, logger *zap.Logger) *CodeHandler {
	return &CodeHandler{codeSvc: codeSvc, flashes: flashes, logger: logger}
}

// Index 首页
// GET /
func (h *CodeHandler) Index(c *gin.Context) {
	h.renderIndex(c, http.StatusOK, "", h.flashes.Flashes(c.Writer, c.Request)...)
}

// Generate 签发新码
// POST /  (表单字段 generate)
func (h *CodeHandler) Generate(c *gin.Context) {
	if _, ok := c.GetPostForm("generate"); !ok {
		h.Index(c)
		return
	}

	result, err := h.codeSvc.Issue(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		h.renderIndex(c, http.StatusInternalServerError, "", MsgFailure)
		return
	}

	switch result.Kind {
	case dto.IssueKindIssued:
		h.renderIndex(c, http.StatusOK, result.Code)
	case dto.IssueKindDuplicate:
		h.renderIndex(c, http.StatusOK, "", MsgDuplicate)
	case dto.IssueKindReinitialized:
		h.renderIndex(c, http.StatusServiceUnavailable, "", MsgReinitialized)
	default:
		h.logger.Error("未知的签发结果", zap.String("kind", string(result.Kind)))
		h.renderIndex(c, http.StatusInternalServerError, "", MsgFailure)
	}
}

// Login 使用访问码登录
// POST /login  (表单字段 code)
func (h *CodeHandler) Login(c *gin.Context) {
	result, err := h.codeSvc.Redeem(c.Request.Context(), c.PostForm("code"))
	if err != nil {
		_ = c.Error(err)
		h.flashAndRedirect(c, MsgFailure)
		return
	}

	switch result.Kind {
	case dto.RedeemKindFound:
		response.Page(c, http.StatusOK, "success.html", gin.H{
			"Title": pageTitle,
			"Code":  result.Code,
		})
	case dto.RedeemKindRejected, dto.RedeemKindNotFound:
		h.flashAndRedirect(c, MsgInvalidCode)
	case dto.RedeemKindReinitialized:
		h.flashAndRedirect(c, MsgReinitialized)
	default:
		h.logger.Error("未知的验码结果", zap.String("kind", string(result.Kind)))
		h.flashAndRedirect(c, MsgFailure)
	}
}

func (h *CodeHandler) renderIndex(c *gin.Context, status int, code string, messages ...string) {
	response.Page(c, status, "index.html", gin.H{
		"Title":      pageTitle,
		"Code":       code,
		"Messages":   messages,
		"CodeLength": service.CodeLength,
	})
}

func (h *CodeHandler) flashAndRedirect(c *gin.Context, msg string) {
	if err := h.flashes.AddFlash(c.Writer, c.Request, msg); err != nil {
		h.logger.Warn("写入 flash 失败", zap.Error(err))
	}
	response.Redirect(c, "/")
}
