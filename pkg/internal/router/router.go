// Package router 把 HTTP 路径绑定到 handle 包的处理器.
package router

import (
	"github.com/gin-gonic/gin"
)

// SetupRoutes 注册全部 API 路由.
func SetupRoutes(engine *gin.Engine) {
	api := engine.Group("/api/v1")

	registerLockRoutes(api)
	registerFileRoutes(api)
	registerHealthRoutes(api)
	registerSchedulerRoutes(api)

	RegisterSwaggerRoute(engine)
}
