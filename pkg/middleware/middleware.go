// Package middleware 提供 HTTP 中间件：身份校验、限流、熔断、追踪、
// 指标、压缩与存储客户端注入.
package middleware

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

// GzipMiddleware 响应压缩. 预签名跳转和 JSON 元数据响应都受益，
// 对象字节流不经过本服务，无需排除.
func GzipMiddleware() gin.HandlerFunc {
	return gzip.Gzip(gzip.DefaultCompression)
}
