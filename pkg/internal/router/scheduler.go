package router

import (
	"github.com/gin-gonic/gin"

	"github.com/alsulaimanm93/minifixwood/pkg/internal/handle"
	"github.com/alsulaimanm93/minifixwood/pkg/middleware"
)

// registerSchedulerRoutes 调度器运维端点，仅管理员可用.
func registerSchedulerRoutes(api *gin.RouterGroup) {
	sched := api.Group("/scheduler", middleware.RequireMinRole(middleware.RoleAdmin))

	sched.GET("/jobs", handle.SchedulerJobs)
	sched.POST("/jobs/stop", handle.SchedulerStopJobs)
	sched.DELETE("/jobs/:jobId", handle.SchedulerRemoveJob)
	sched.GET("/queue", handle.SchedulerQueueWaiting)
}
