package configs

import "github.com/spf13/viper"

// EventsConfig 控制事件发布的开关（全局与分主题）。
type EventsConfig struct {
	Enabled bool             `mapstructure:"enabled"` // 总开关
	Audit   AuditEventsConfig `mapstructure:"audit"`
	File    FileEventsConfig  `mapstructure:"file"`
}

// AuditEventsConfig 审计事件开关。审计写入是尽力而为的，失败只记日志.
type AuditEventsConfig struct {
	Recorded bool `mapstructure:"recorded"`
}

// FileEventsConfig 针对文件领域的事件开关。
type FileEventsConfig struct {
	Stored    bool `mapstructure:"stored"`
	Deleted   bool `mapstructure:"deleted"`
	Versioned bool `mapstructure:"versioned"`
	Accessed  bool `mapstructure:"accessed"`
}

func (c *EventsConfig) setDefaults(v *viper.Viper) {
	// 总开关：默认启用事件系统
	v.SetDefault("events.enabled", true)

	// 审计事件：默认开启，是ERP合规要求的最小集
	v.SetDefault("events.audit.recorded", true)

	// 文件领域的事件：默认仅开启最小必要集，避免噪声过大
	v.SetDefault("events.file.stored", true)
	v.SetDefault("events.file.deleted", true)
	v.SetDefault("events.file.versioned", true)

	// 访问事件量可能很大，默认关闭
	v.SetDefault("events.file.accessed", false)
}
