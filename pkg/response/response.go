package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response 统一 JSON 响应结构（运维接口使用）
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// OK 200 成功响应
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Error 通用错误响应
func Error(c *gin.Context, httpStatus int, code int, message string, data interface{}) {
	c.JSON(httpStatus, Response{
		Code:    code,
		Message: message,
		Data:    data,
	})
}

// ServiceUnavailable 503
func ServiceUnavailable(c *gin.Context, data interface{}) {
	Error(c, http.StatusServiceUnavailable, 50300, "service unavailable", data)
}

// ── 页面响应 ──

// Page 渲染 HTML 模板
func Page(c *gin.Context, httpStatus int, name string, data gin.H) {
	c.HTML(httpStatus, name, data)
}

// Redirect 表单提交后 302 重定向
func Redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusFound, location)
}
