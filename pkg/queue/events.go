package queue

import "github.com/ThreeDotsLabs/watermill/message"

// -------------------------- 基于业务封装 events --------------------------

// PublishFileStored 发布 mfw.file.stored 事件。
// 用于文件元数据创建完成后，通知下游流程（如全文索引、统计等）。
// 可通过可选项 opts 注入 TraceID、Producer 等头部信息。
func PublishFileStored(pub message.Publisher, payload FileStoredPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicFileStored, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicFileStored, msg)
}

// ParseFileStored 将 Watermill 消息解析为强类型 Envelope（FileStoredPayload）。
func ParseFileStored(msg *message.Message) (Message[FileStoredPayload], error) {
	return ParseWatermillMessage[FileStoredPayload](msg)
}

// PublishFileVersioned 发布 mfw.file.versioned 事件，在上传提交点追加新版本后触发。
func PublishFileVersioned(pub message.Publisher, payload FileVersionedPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicFileVersioned, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicFileVersioned, msg)
}

// ParseFileVersioned 将 Watermill 消息解析为强类型 Envelope（FileVersionedPayload）。
func ParseFileVersioned(msg *message.Message) (Message[FileVersionedPayload], error) {
	return ParseWatermillMessage[FileVersionedPayload](msg)
}

// PublishFileDeleted 发布 mfw.file.deleted 事件，在元数据级联删除提交后触发。
func PublishFileDeleted(pub message.Publisher, payload FileDeletedPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicFileDeleted, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicFileDeleted, msg)
}

// PublishFileAccessed 发布 mfw.file.accessed 事件（默认关闭，量大时慎用）。
func PublishFileAccessed(pub message.Publisher, payload FileAccessedPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicFileAccessed, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicFileAccessed, msg)
}

// PublishLockAcquired 发布 mfw.lock.acquired 事件，文件被签出后触发。
func PublishLockAcquired(pub message.Publisher, payload LockAcquiredPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicLockAcquired, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicLockAcquired, msg)
}

// PublishLockReleased 发布 mfw.lock.released 事件，文件被归还后触发。
func PublishLockReleased(pub message.Publisher, payload LockReleasedPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicLockReleased, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicLockReleased, msg)
}

// PublishAuditRecorded 发布 mfw.audit.recorded 事件。审计为尽力而为，调用方不应因失败回滚业务。
func PublishAuditRecorded(pub message.Publisher, payload AuditRecordedPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicAuditRecorded, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicAuditRecorded, msg)
}

// ParseAuditRecorded 将 Watermill 消息解析为强类型 Envelope（AuditRecordedPayload）。
func ParseAuditRecorded(msg *message.Message) (Message[AuditRecordedPayload], error) {
	return ParseWatermillMessage[AuditRecordedPayload](msg)
}
