package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/alsulaimanm93/minifixwood/pkg/internal/model"
)

// maxVersionRetries 唯一索引冲突时的重试上限.
// 冲突只在并发提交同一文件时出现，按新序号重算即可.
const maxVersionRetries = 3

// VersionMeta 追加版本所需的元信息，均来自客户端申报.
type VersionMeta struct {
	ObjectKey string
	SizeBytes int64
	SHA256    string
	ETag      string
	CreatedBy string
}

// appendVersionTx 在事务内追加一个版本并推进当前版本指针.
//
// 锁住文件行后取 MAX(version_no)+1，配合 (file_id, version_no) 唯一索引
// 保证版本号单调无空洞；File.SizeBytes 镜像新版本大小.
func appendVersionTx(tx *gorm.DB, fileID string, meta VersionMeta) (*model.FileVersion, error) {
	var file model.File
	if err := rowLock(tx).First(&file, "id = ?", fileID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "file", ID: fileID}
		}

		return nil, fmt.Errorf("failed to load file for version append: %w", err)
	}

	var maxNo int
	if err := tx.Model(&model.FileVersion{}).
		Where("file_id = ?", fileID).
		Select("COALESCE(MAX(version_no), 0)").
		Scan(&maxNo).Error; err != nil {
		return nil, fmt.Errorf("failed to compute next version number: %w", err)
	}

	version := model.FileVersion{
		FileID:    fileID,
		VersionNo: maxNo + 1,
		ObjectKey: meta.ObjectKey,
		SHA256:    meta.SHA256,
		ETag:      meta.ETag,
		SizeBytes: meta.SizeBytes,
		CreatedBy: meta.CreatedBy,
	}
	if err := tx.Create(&version).Error; err != nil {
		return nil, fmt.Errorf("failed to insert file version: %w", err)
	}

	if err := tx.Model(&model.File{}).Where("id = ?", fileID).
		Updates(map[string]any{
			"current_version_id": version.ID,
			"size_bytes":         version.SizeBytes,
		}).Error; err != nil {
		return nil, fmt.Errorf("failed to advance current version pointer: %w", err)
	}

	return &version, nil
}

// isDuplicateVersion 识别 (file_id, version_no) 唯一索引冲突.
// 各方言的错误文案不同，按关键字匹配.
func isDuplicateVersion(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	msg := strings.ToLower(err.Error())

	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}

// AppendVersion 追加版本，唯一索引冲突时带上限重试.
func (s *FileService) AppendVersion(ctx context.Context, fileID string, meta VersionMeta) (*model.FileVersion, error) {
	var (
		version *model.FileVersion
		lastErr error
	)

	for attempt := 0; attempt < maxVersionRetries; attempt++ {
		lastErr = s.dbClient.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			v, err := appendVersionTx(tx, fileID, meta)
			if err != nil {
				return err
			}

			version = v

			return nil
		})
		if lastErr == nil {
			return version, nil
		}

		if !isDuplicateVersion(lastErr) {
			return nil, lastErr
		}
	}

	return nil, fmt.Errorf("failed to append version after %d attempts: %w", maxVersionRetries, lastErr)
}

// ListVersions 返回文件的版本链，按版本号从新到旧.
func (s *FileService) ListVersions(ctx context.Context, fileID string) ([]model.FileVersion, error) {
	if err := s.mustFileExist(ctx, fileID); err != nil {
		return nil, err
	}

	var versions []model.FileVersion
	if err := s.dbClient.WithContext(ctx).
		Where("file_id = ?", fileID).
		Order("version_no DESC").
		Find(&versions).Error; err != nil {
		return nil, fmt.Errorf("failed to list file versions: %w", err)
	}

	return versions, nil
}

// CurrentVersion 返回文件当前版本，文件尚无版本时返回 nil.
func (s *FileService) CurrentVersion(ctx context.Context, fileID string) (*model.FileVersion, error) {
	file, err := s.getFile(ctx, fileID)
	if err != nil {
		return nil, err
	}

	if file.CurrentVersionID == nil {
		return nil, nil
	}

	var version model.FileVersion
	if err := s.dbClient.WithContext(ctx).
		First(&version, "id = ?", *file.CurrentVersionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "file version", ID: *file.CurrentVersionID}
		}

		return nil, fmt.Errorf("failed to load current version: %w", err)
	}

	return &version, nil
}

// NextVersionNumber 只读预览下一个版本号，不保留占位.
// 真正的编号在追加事务内重新计算.
func (s *FileService) NextVersionNumber(ctx context.Context, fileID string) (int, error) {
	if err := s.mustFileExist(ctx, fileID); err != nil {
		return 0, err
	}

	var maxNo int
	if err := s.dbClient.WithContext(ctx).Model(&model.FileVersion{}).
		Where("file_id = ?", fileID).
		Select("COALESCE(MAX(version_no), 0)").
		Scan(&maxNo).Error; err != nil {
		return 0, fmt.Errorf("failed to compute next version number: %w", err)
	}

	return maxNo + 1, nil
}

// versionByID 取指定版本并校验归属.
func (s *FileService) versionByID(ctx context.Context, fileID, versionID string) (*model.FileVersion, error) {
	var version model.FileVersion

	err := s.dbClient.WithContext(ctx).
		Where("id = ? AND file_id = ?", versionID, fileID).
		First(&version).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "file version", ID: versionID}
		}

		return nil, fmt.Errorf("failed to load file version: %w", err)
	}

	return &version, nil
}
