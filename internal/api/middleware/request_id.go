package middleware

import (
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/KingcleverFcl/wna-syte/internal/codegen"
)

const (
	requestIDKey    = "request_id"
	requestIDHeader = "X-Request-ID"
)

// 外部传入的 Request-ID 只接受短的可打印标识
var requestIDPattern = regexp.MustCompile(`^[A-Za-z0-9._-]{1,64}$`)

// RequestID 请求追踪 ID 中间件
// X-Request-ID 格式不符或形似访问码时改用新生成的 UUID，访问码不得进入日志
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(requestIDHeader)
		if !acceptRequestID(rid) {
			rid = uuid.NewString()
		}

		c.Set(requestIDKey, rid)
		c.Header(requestIDHeader, rid)

		c.Next()
	}
}

// RequestIDFrom 读取当前请求的追踪 ID
func RequestIDFrom(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

func acceptRequestID(rid string) bool {
	return requestIDPattern.MatchString(rid) && !codegen.Valid(rid)
}
