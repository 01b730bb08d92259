package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/alsulaimanm93/minifixwood/pkg/context"
	"github.com/alsulaimanm93/minifixwood/pkg/internal/storage"
)

// StorageMiddleware 把存储管理器注入 request context，供 handle 层构建服务实例.
func StorageMiddleware(manager *storage.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.WithStorageManager(c.Request.Context(), manager)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
