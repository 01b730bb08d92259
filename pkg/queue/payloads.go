package queue

import "time"

// -------------------------- 文件仓库领域 --------------------------

// FileRef 标识文件及其在对象存储中的位置.
type FileRef struct {
	FileID      string `json:"file_id"`
	ProjectID   string `json:"project_id,omitempty"`
	Name        string `json:"name,omitempty"`
	ObjectKey   string `json:"object_key,omitempty"`
	ETag        string `json:"etag,omitempty"`
	Size        int64  `json:"size,omitempty"`
	SHA256      string `json:"sha256,omitempty"`
	ContentType string `json:"content_type,omitempty"`
}

// FileStoredPayload 文件元数据创建完成.
type FileStoredPayload struct {
	File FileRef `json:"file"`
	// Actor 触发操作的用户.
	Actor string `json:"actor,omitempty"`
}

// FileDeletedPayload 文件及其版本链被删除.
type FileDeletedPayload struct {
	File FileRef `json:"file"`
	// VersionCount 被级联删除的版本数.
	VersionCount int    `json:"version_count,omitempty"`
	Actor        string `json:"actor,omitempty"`
}

// FileVersionedPayload 上传提交产生新版本.
type FileVersionedPayload struct {
	File      FileRef `json:"file"`
	VersionID string  `json:"version_id"`
	VersionNo int     `json:"version_no"`
	Actor     string  `json:"actor,omitempty"`
}

// FileAccessedPayload 文件被下载或预览.
type FileAccessedPayload struct {
	File FileRef `json:"file"`
	// Mode 访问方式：download/preview/pdf/presign.
	Mode  string `json:"mode,omitempty"`
	Actor string `json:"actor,omitempty"`
}

// -------------------------- 租约锁领域 --------------------------

// LockAcquiredPayload 文件被签出.
type LockAcquiredPayload struct {
	LockID    string    `json:"lock_id"`
	FileID    string    `json:"file_id"`
	LockedBy  string    `json:"locked_by"`
	ClientID  string    `json:"client_id,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}

// LockReleasedPayload 文件被归还.
type LockReleasedPayload struct {
	LockID   string `json:"lock_id"`
	FileID   string `json:"file_id"`
	LockedBy string `json:"locked_by"`
}

// -------------------------- 审计领域 --------------------------

// AuditRecordedPayload 业务操作审计记录，尽力而为写入.
type AuditRecordedPayload struct {
	// Actor 执行操作的用户.
	Actor string `json:"actor"`
	// Action 操作名，如 file.rename、upload.complete、lock.acquire.
	Action string `json:"action"`
	// EntityType 实体类型，如 file、file_version、lock.
	EntityType string `json:"entity_type,omitempty"`
	// EntityID 实体标识.
	EntityID string `json:"entity_id,omitempty"`
	// Metadata 附加上下文，键值均为字符串以便跨语言消费.
	Metadata map[string]string `json:"metadata,omitempty"`
}
