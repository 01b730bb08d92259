// Package types 定义 HTTP 层的请求与响应结构体.
package types

import "time"

// AcquireLockRequest 签出（加锁）请求.
type AcquireLockRequest struct {
	FileID   string `binding:"required" json:"file_id"              rule:"required,uuid4"`
	ClientID string `json:"client_id,omitempty"                    rule:"max=255"` // 可选：客户端工作站标识
	// 可选：请求的租约时长（分钟），超出服务端上限时被收敛
	LeaseMinutes int `json:"lease_minutes,omitempty" rule:"min=0,max=1440"`
}

// HeartbeatLockRequest 心跳续约请求.
type HeartbeatLockRequest struct {
	LockID string `binding:"required" json:"lock_id"               rule:"required,uuid4"`
	// 可选：续约时长（分钟），默认服务端配置
	LeaseMinutes int `json:"lease_minutes,omitempty" rule:"min=0,max=1440"`
}

// ReleaseLockRequest 归还（解锁）请求.
type ReleaseLockRequest struct {
	LockID string `binding:"required" json:"lock_id" rule:"required,uuid4"`
}

// LockResponse 锁信息响应.
type LockResponse struct {
	LockID    string    `json:"lock_id"`
	FileID    string    `json:"file_id"`
	LockedBy  string    `json:"locked_by"`
	ClientID  string    `json:"client_id,omitempty"`
	Mode      string    `json:"mode"`
	LockedAt  time.Time `json:"locked_at"`
	ExpiresAt time.Time `json:"expires_at"`
	Active    bool      `json:"active"`
}

// LockConflictResponse 409 响应体，携带持有者与到期时间，供客户端提示与倒计时.
type LockConflictResponse struct {
	Message   string    `json:"message"`
	LockedBy  string    `json:"locked_by"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ReleaseLockResponse 归还结果.
type ReleaseLockResponse struct {
	LockID   string `json:"lock_id"`
	Released bool   `json:"released"`
}
