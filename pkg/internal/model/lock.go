package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LockModeExclusive 当前唯一支持的锁模式.
const LockModeExclusive = "exclusive"

// Lock 文件租约锁.
// 不变式：同一文件至多存在一条 Active 且未过期的行.
// 过期行不做后台清理，由下一次观察（签出、写保护检查）时惰性翻转 Active=false.
type Lock struct {
	ID       string `gorm:"primaryKey;size:36" json:"id"`
	FileID   string `gorm:"size:36;index"      json:"file_id"`
	LockedBy string `gorm:"size:255;index"     json:"locked_by"`
	// 客户端实例标识，用于区分同一用户的多个工作站
	ClientID string `gorm:"size:255" json:"client_id,omitempty"`
	// 锁模式，目前仅 exclusive
	Mode      string    `gorm:"size:32"    json:"mode"`
	LockedAt  time.Time `json:"locked_at"`
	ExpiresAt time.Time `gorm:"index"      json:"expires_at"`
	Active    bool      `gorm:"index"      json:"active"`
}

// BeforeCreate 生成 UUID 主键并补全默认模式.
func (l *Lock) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}

	if l.Mode == "" {
		l.Mode = LockModeExclusive
	}

	return nil
}

// Expired 判断租约在 now 时刻是否已过期.
func (l *Lock) Expired(now time.Time) bool {
	return !now.Before(l.ExpiresAt)
}
