package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/alsulaimanm93/minifixwood/pkg/middleware"
)

// SchedulerJobs 列出全部定时任务.
//
//	@Summary	定时任务列表
//	@Tags		调度
//	@Produce	json
//	@Success	200	{array}		scheduler.JobInfo	"任务列表"
//	@Failure	503	{object}	map[string]string	"调度器未初始化"
//	@Router		/api/v1/scheduler/jobs [get]
func SchedulerJobs(c *gin.Context) {
	sched := middleware.GetScheduler(c)
	if sched == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "scheduler not initialized"})

		return
	}

	c.JSON(http.StatusOK, sched.GetJobInfos())
}

// SchedulerStopJobs 暂停所有定时任务.
//
//	@Summary	暂停定时任务
//	@Tags		调度
//	@Produce	json
//	@Success	200	{object}	map[string]string	"已暂停"
//	@Failure	503	{object}	map[string]string	"调度器未初始化"
//	@Router		/api/v1/scheduler/jobs/stop [post]
func SchedulerStopJobs(c *gin.Context) {
	sched := middleware.GetScheduler(c)
	if sched == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "scheduler not initialized"})

		return
	}

	if err := sched.StopJobs(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "stopped"})
}

// SchedulerRemoveJob 按 ID 移除定时任务.
//
//	@Summary	移除定时任务
//	@Tags		调度
//	@Produce	json
//	@Param		jobId	path		string				true	"任务 ID"
//	@Success	200		{object}	map[string]string	"已移除"
//	@Failure	400		{object}	map[string]string	"任务 ID 非法"
//	@Failure	503		{object}	map[string]string	"调度器未初始化"
//	@Router		/api/v1/scheduler/jobs/{jobId} [delete]
func SchedulerRemoveJob(c *gin.Context) {
	sched := middleware.GetScheduler(c)
	if sched == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "scheduler not initialized"})

		return
	}

	id, err := uuid.Parse(c.Param("jobId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid job id"})

		return
	}

	if err := sched.RemoveJob(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "removed"})
}

// SchedulerQueueWaiting 队列中等待执行的任务数.
//
//	@Summary	等待队列长度
//	@Tags		调度
//	@Produce	json
//	@Success	200	{object}	map[string]int		"队列长度"
//	@Failure	503	{object}	map[string]string	"调度器未初始化"
//	@Router		/api/v1/scheduler/queue [get]
func SchedulerQueueWaiting(c *gin.Context) {
	sched := middleware.GetScheduler(c)
	if sched == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "scheduler not initialized"})

		return
	}

	c.JSON(http.StatusOK, gin.H{"waiting": sched.JobsWaitingInQueue()})
}
