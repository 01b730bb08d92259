package router

import (
	"github.com/gin-gonic/gin"

	"github.com/alsulaimanm93/minifixwood/pkg/internal/handle"
)

// registerLockRoutes 签出锁的获取、心跳与释放.
func registerLockRoutes(api *gin.RouterGroup) {
	locks := api.Group("/locks")

	locks.POST("/acquire", handle.AcquireLock)
	locks.POST("/heartbeat", handle.HeartbeatLock)
	locks.POST("/release", handle.ReleaseLock)
}
