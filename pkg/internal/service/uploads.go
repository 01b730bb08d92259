package service

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/alsulaimanm93/minifixwood/pkg/internal/model"
	"github.com/alsulaimanm93/minifixwood/pkg/internal/types"
)

// InitiateUpload 两阶段上传第一阶段：签发预签名 PUT URL.
//
// 只生成 URL，不落任何待定状态；客户端不提交时对象键只是从未被写
// 入的名字，没有需要清理的残留. 对象键带随机令牌，重复上传同名文
// 件互不覆盖.
func (s *FileService) InitiateUpload(ctx context.Context, fileID string, req types.InitiateUploadRequest) (*types.InitiateUploadResponse, error) {
	if err := s.mustFileExist(ctx, fileID); err != nil {
		return nil, err
	}

	objectKey := buildObjectKey(fileID, newUploadToken(), safeFileName(req.FileName))

	putURL, err := s.store.PresignedPutObject(ctx, s.bucket, objectKey, DefaultPresignedOpTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to presign upload URL: %w", err)
	}

	return &types.InitiateUploadResponse{
		ObjectKey: objectKey,
		PutURL:    putURL.String(),
		ExpiresIn: int(DefaultPresignedOpTimeout.Seconds()),
	}, nil
}

// CompleteUpload 两阶段上传的提交点：写保护检查后把对象登记为新版本.
//
// 对象键必须是第一阶段为该文件签发的键；大小与哈希采用客户端申报值，
// 服务端不回读对象复算. 提交与版本追加在同一事务内完成.
func (s *FileService) CompleteUpload(ctx context.Context, fileID, actor string, req types.CompleteUploadRequest) (*types.CompleteUploadResponse, error) {
	if !strings.HasPrefix(req.ObjectKey, objectKeyPrefix(fileID)) {
		return nil, &ValidationError{Field: "object_key", Reason: "does not belong to this file"}
	}

	meta := VersionMeta{
		ObjectKey: req.ObjectKey,
		SizeBytes: req.Size,
		SHA256:    strings.ToLower(req.SHA256),
		ETag:      req.ETag,
		CreatedBy: actor,
	}

	var (
		version *model.FileVersion
		lastErr error
	)

	for attempt := 0; attempt < maxVersionRetries; attempt++ {
		lastErr = s.dbClient.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := ensureWritableTx(tx, fileID, actor); err != nil {
				return err
			}

			v, err := appendVersionTx(tx, fileID, meta)
			if err != nil {
				return err
			}

			version = v

			return nil
		})
		if lastErr == nil {
			break
		}

		if !isDuplicateVersion(lastErr) {
			return nil, lastErr
		}
	}

	if lastErr != nil {
		return nil, fmt.Errorf("failed to commit upload after %d attempts: %w", maxVersionRetries, lastErr)
	}

	s.publishFileVersioned(ctx, fileID, version, actor)
	s.audit(ctx, actor, "upload.complete", "file", fileID, map[string]string{
		"version_no": fmt.Sprintf("%d", version.VersionNo),
		"object_key": version.ObjectKey,
	})

	return &types.CompleteUploadResponse{
		FileID:    fileID,
		VersionID: version.ID,
		VersionNo: version.VersionNo,
		ObjectKey: version.ObjectKey,
		SizeBytes: version.SizeBytes,
	}, nil
}
