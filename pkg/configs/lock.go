package configs

import (
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultLockLeaseMinutes    = 15  // 默认租约时长（分钟）
	DefaultLockMaxLeaseMinutes = 120 // 客户端可请求的租约上限（分钟）
)

// LockConfig 文件租约锁配置.
// 锁按租约（lease）方式工作：到期即失效，持有者通过心跳续约.
// 过期行不做后台清理，由下一次观察时惰性翻转为 inactive.
type LockConfig struct {
	LeaseMinutes    int `mapstructure:"lease_minutes"     rule:"min=1,max=1440"`
	MaxLeaseMinutes int `mapstructure:"max_lease_minutes" rule:"min=1,max=1440"`
}

// LeaseDuration 返回默认租约时长.
func (c *LockConfig) LeaseDuration() time.Duration {
	return time.Duration(c.LeaseMinutes) * time.Minute
}

// MaxLeaseDuration 返回允许的最大租约时长.
func (c *LockConfig) MaxLeaseDuration() time.Duration {
	return time.Duration(c.MaxLeaseMinutes) * time.Minute
}

// ClampLease 将客户端请求的租约时长收敛到 [1分钟, 上限]；零值回退到默认租约.
func (c *LockConfig) ClampLease(requested time.Duration) time.Duration {
	if requested <= 0 {
		return c.LeaseDuration()
	}

	if requested < time.Minute {
		return time.Minute
	}

	if maxLease := c.MaxLeaseDuration(); requested > maxLease {
		return maxLease
	}

	return requested
}

// setDefaults 设置文件锁配置的默认值.
func (c *LockConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("lock.lease_minutes", DefaultLockLeaseMinutes)
	v.SetDefault("lock.max_lease_minutes", DefaultLockMaxLeaseMinutes)
}
