package service

import (
	"context"

	"go.opentelemetry.io/otel/trace"

	"github.com/alsulaimanm93/minifixwood/pkg/configs"
	"github.com/alsulaimanm93/minifixwood/pkg/internal/model"
	nlog "github.com/alsulaimanm93/minifixwood/pkg/log"
	"github.com/alsulaimanm93/minifixwood/pkg/queue"
)

// eventProducer 事件头中的生产者标识.
const eventProducer = "minifixwood"

// eventOpts 组装事件头：生产者 + 当前 trace（若有）.
func eventOpts(ctx context.Context) []func(*queue.EventHeader) {
	opts := []func(*queue.EventHeader){queue.WithProducer(eventProducer)}

	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		opts = append(opts, queue.WithTraceID(sc.TraceID().String()))
	}

	return opts
}

// fileEvents 返回文件事件开关，MQ 未接入时一律关闭.
func (s *FileService) fileEvents() (configs.FileEventsConfig, bool) {
	if s.mqClient == nil {
		return configs.FileEventsConfig{}, false
	}

	cfg := configs.GetConfig().Events
	if !cfg.Enabled {
		return configs.FileEventsConfig{}, false
	}

	return cfg.File, true
}

func (s *FileService) publishFileStored(ctx context.Context, file *model.File) {
	ev, ok := s.fileEvents()
	if !ok || !ev.Stored {
		return
	}

	payload := queue.FileStoredPayload{
		File:  fileRef(file),
		Actor: file.CreatedBy,
	}
	if err := queue.PublishFileStored(s.mqClient.Publisher(), payload, eventOpts(ctx)...); err != nil {
		nlog.Logger().Warn().Err(err).Str("file_id", file.ID).Msg("failed to publish file stored event")
	}
}

func (s *FileService) publishFileVersioned(ctx context.Context, fileID string, version *model.FileVersion, actor string) {
	ev, ok := s.fileEvents()
	if !ok || !ev.Versioned {
		return
	}

	payload := queue.FileVersionedPayload{
		File: queue.FileRef{
			FileID:    fileID,
			ObjectKey: version.ObjectKey,
			Size:      version.SizeBytes,
			SHA256:    version.SHA256,
			ETag:      version.ETag,
		},
		VersionID: version.ID,
		VersionNo: version.VersionNo,
		Actor:     actor,
	}
	if err := queue.PublishFileVersioned(s.mqClient.Publisher(), payload, eventOpts(ctx)...); err != nil {
		nlog.Logger().Warn().Err(err).Str("file_id", fileID).Msg("failed to publish file versioned event")
	}
}

func (s *FileService) publishFileDeleted(ctx context.Context, fileID string, versionCount int) {
	ev, ok := s.fileEvents()
	if !ok || !ev.Deleted {
		return
	}

	payload := queue.FileDeletedPayload{
		File:         queue.FileRef{FileID: fileID},
		VersionCount: versionCount,
	}
	if err := queue.PublishFileDeleted(s.mqClient.Publisher(), payload, eventOpts(ctx)...); err != nil {
		nlog.Logger().Warn().Err(err).Str("file_id", fileID).Msg("failed to publish file deleted event")
	}
}

func (s *FileService) publishFileAccessed(ctx context.Context, file *model.File, mode string) {
	ev, ok := s.fileEvents()
	if !ok || !ev.Accessed {
		return
	}

	payload := queue.FileAccessedPayload{
		File: fileRef(file),
		Mode: mode,
	}
	if err := queue.PublishFileAccessed(s.mqClient.Publisher(), payload, eventOpts(ctx)...); err != nil {
		nlog.Logger().Warn().Err(err).Str("file_id", file.ID).Msg("failed to publish file accessed event")
	}
}

func (s *FileService) publishLockAcquired(ctx context.Context, lock *model.Lock) {
	if s.mqClient == nil || !configs.GetConfig().Events.Enabled {
		return
	}

	payload := queue.LockAcquiredPayload{
		LockID:    lock.ID,
		FileID:    lock.FileID,
		LockedBy:  lock.LockedBy,
		ClientID:  lock.ClientID,
		ExpiresAt: lock.ExpiresAt,
	}
	if err := queue.PublishLockAcquired(s.mqClient.Publisher(), payload, eventOpts(ctx)...); err != nil {
		nlog.Logger().Warn().Err(err).Str("lock_id", lock.ID).Msg("failed to publish lock acquired event")
	}
}

func (s *FileService) publishLockReleased(ctx context.Context, lockID, holder string) {
	if s.mqClient == nil || !configs.GetConfig().Events.Enabled {
		return
	}

	payload := queue.LockReleasedPayload{
		LockID:   lockID,
		LockedBy: holder,
	}
	if err := queue.PublishLockReleased(s.mqClient.Publisher(), payload, eventOpts(ctx)...); err != nil {
		nlog.Logger().Warn().Err(err).Str("lock_id", lockID).Msg("failed to publish lock released event")
	}
}

// audit 发布审计事件，尽力而为，失败只记日志不影响业务结果.
func (s *FileService) audit(ctx context.Context, actor, action, entityType, entityID string, metadata map[string]string) {
	if s.mqClient == nil {
		return
	}

	cfg := configs.GetConfig().Events
	if !cfg.Enabled || !cfg.Audit.Recorded {
		return
	}

	payload := queue.AuditRecordedPayload{
		Actor:      actor,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Metadata:   metadata,
	}
	if err := queue.PublishAuditRecorded(s.mqClient.Publisher(), payload, eventOpts(ctx)...); err != nil {
		nlog.Logger().Warn().Err(err).Str("action", action).Msg("failed to publish audit event")
	}
}

// fileRef 从模型构造事件里的文件引用.
func fileRef(file *model.File) queue.FileRef {
	ref := queue.FileRef{
		FileID:      file.ID,
		Name:        file.Name,
		Size:        file.SizeBytes,
		ContentType: file.Mime,
	}
	if file.ProjectID != nil {
		ref.ProjectID = *file.ProjectID
	}

	return ref
}
