package router

import (
	"github.com/gin-gonic/gin"

	"github.com/alsulaimanm93/minifixwood/pkg/internal/handle"
)

// registerHealthRoutes 服务与各存储组件的健康检查.
func registerHealthRoutes(api *gin.RouterGroup) {
	health := api.Group("/health")

	health.GET("", handle.Health)
	health.GET("/db", handle.HealthDB)
	health.GET("/s3", handle.HealthS3)
	health.GET("/mq", handle.HealthMQ)
	health.GET("/kv", handle.HealthKV)
}
