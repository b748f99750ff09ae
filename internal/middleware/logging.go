// Package middleware 提供了处理 HTTP 请求的中间件。
package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"docs-italia-go/pkg/log"
)

// RequestLogger 是一个 Gin 中间件，用于记录每次请求的概要日志。
// webhook 的请求体可能包含平台侧的敏感载荷，因此只记录元信息不记录正文。
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		c.Next()

		latency := time.Since(startTime)
		log.Infow("HTTP Request Log",
			"statusCode", c.Writer.Status(),
			"latency", latency.String(),
			"clientIP", c.ClientIP(),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
		)
	}
}
