package handle

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alsulaimanm93/minifixwood/pkg/internal/service"
	"github.com/alsulaimanm93/minifixwood/pkg/internal/types"
)

// AcquireLock 签出文件.
//
//	@Summary		签出文件（加租约锁）
//	@Description	为文件获取独占租约锁。同一持有者重复签出幂等返回原锁；他人持有未过期锁时返回 409，响应体携带持有者与到期时间
//	@Tags			锁
//	@Accept			json
//	@Produce		json
//	@Param			X-User	header		string						false	"请求方身份"
//	@Param			request	body		types.AcquireLockRequest	true	"签出请求"
//	@Success		200		{object}	types.LockResponse			"锁信息"
//	@Failure		400		{object}	map[string]string			"请求体错误"
//	@Failure		404		{object}	map[string]string			"文件不存在"
//	@Failure		409		{object}	types.LockConflictResponse	"已被他人签出"
//	@Failure		422		{object}	map[string]string			"参数校验失败"
//	@Router			/api/v1/locks/acquire [post]
func AcquireLock(c *gin.Context) {
	user, err := checkUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})

		return
	}

	var req types.AcquireLockRequest
	if !bindAndValidate(c, &req) {
		return
	}

	svc := service.NewFileService(c.Request.Context())

	lock, err := svc.AcquireLock(c.Request.Context(), req.FileID, user, req.ClientID,
		time.Duration(req.LeaseMinutes)*time.Minute)
	if err != nil {
		respondServiceError(c, err)

		return
	}

	c.JSON(http.StatusOK, toLockResponse(lock))
}

// HeartbeatLock 心跳续约.
//
//	@Summary		心跳续约
//	@Description	把持有的租约到期时间推后一个周期。锁不存在、已过期或持有者不符时返回 404，客户端应重新签出
//	@Tags			锁
//	@Accept			json
//	@Produce		json
//	@Param			X-User	header		string						false	"请求方身份"
//	@Param			request	body		types.HeartbeatLockRequest	true	"续约请求"
//	@Success		200		{object}	types.LockResponse			"续约后的锁"
//	@Failure		404		{object}	map[string]string			"租约已失效"
//	@Router			/api/v1/locks/heartbeat [post]
func HeartbeatLock(c *gin.Context) {
	user, err := checkUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})

		return
	}

	var req types.HeartbeatLockRequest
	if !bindAndValidate(c, &req) {
		return
	}

	svc := service.NewFileService(c.Request.Context())

	lock, err := svc.HeartbeatLock(c.Request.Context(), req.LockID, user,
		time.Duration(req.LeaseMinutes)*time.Minute)
	if err != nil {
		respondServiceError(c, err)

		return
	}

	c.JSON(http.StatusOK, toLockResponse(lock))
}

// ReleaseLock 归还锁.
//
//	@Summary		归还（解锁）
//	@Description	释放自己持有的租约锁。锁不存在、已释放或持有者不符时返回 404
//	@Tags			锁
//	@Accept			json
//	@Produce		json
//	@Param			X-User	header		string						false	"请求方身份"
//	@Param			request	body		types.ReleaseLockRequest	true	"归还请求"
//	@Success		200		{object}	types.ReleaseLockResponse	"归还结果"
//	@Failure		404		{object}	map[string]string			"锁不存在或持有者不符"
//	@Router			/api/v1/locks/release [post]
func ReleaseLock(c *gin.Context) {
	user, err := checkUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})

		return
	}

	var req types.ReleaseLockRequest
	if !bindAndValidate(c, &req) {
		return
	}

	svc := service.NewFileService(c.Request.Context())

	if err := svc.ReleaseLock(c.Request.Context(), req.LockID, user); err != nil {
		respondServiceError(c, err)

		return
	}

	c.JSON(http.StatusOK, types.ReleaseLockResponse{LockID: req.LockID, Released: true})
}
