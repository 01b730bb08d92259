// Package queue 定义消息主题常量与通配模式，供发布/订阅使用.
package queue

// 主题命名规范：mfw.<域>.<动作>，尽量稳定且向后兼容.
// 域：file(文件仓库)、lock(租约锁)、audit(审计)
// 动作：存储相关(stored/deleted/versioned/accessed)、锁相关(acquired/released)、审计(recorded)

const (
	// 文件仓库领域.
	TopicFileStored    = "mfw.file.stored"    // 文件元数据创建完成
	TopicFileDeleted   = "mfw.file.deleted"   // 文件及其版本链被删除
	TopicFileVersioned = "mfw.file.versioned" // 上传提交产生新版本
	TopicFileAccessed  = "mfw.file.accessed"  // 文件被下载/预览（用于热点统计，默认关闭）

	// 租约锁领域.
	TopicLockAcquired = "mfw.lock.acquired" // 文件被签出
	TopicLockReleased = "mfw.lock.released" // 文件被归还

	// 审计领域.
	TopicAuditRecorded = "mfw.audit.recorded" // 业务操作审计记录

	// 通配订阅模式.
	PatternFileAll = "mfw.file.>" // 订阅文件领域全部事件（NATS 通配）
)
