package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/alsulaimanm93/minifixwood/pkg/internal/model"
	"github.com/alsulaimanm93/minifixwood/pkg/internal/types"
	nlog "github.com/alsulaimanm93/minifixwood/pkg/log"
)

// cleanupConcurrency 删除文件后并行清理对象的并发上限.
const cleanupConcurrency = 4

// CreateFile 创建文件元数据记录，内容随后通过两阶段上传追加.
func (s *FileService) CreateFile(ctx context.Context, actor string, req types.CreateFileRequest) (*model.File, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, &ValidationError{Field: "name", Reason: "must not be blank"}
	}

	file := model.File{
		Kind:      req.Kind,
		Name:      name,
		Mime:      req.Mime,
		CreatedBy: actor,
	}
	if req.ProjectID != "" {
		pid := req.ProjectID
		file.ProjectID = &pid
	}

	if err := s.dbClient.WithContext(ctx).Create(&file).Error; err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	s.publishFileStored(ctx, &file)
	s.audit(ctx, actor, "file.create", "file", file.ID, map[string]string{"name": file.Name})

	return &file, nil
}

// GetFile 返回文件元数据.
func (s *FileService) GetFile(ctx context.Context, fileID string) (*model.File, error) {
	return s.getFile(ctx, fileID)
}

// ListFiles 列出文件，支持按项目过滤，按更新时间从新到旧.
func (s *FileService) ListFiles(ctx context.Context, projectID string) ([]model.File, error) {
	query := s.dbClient.WithContext(ctx).Model(&model.File{})
	if projectID != "" {
		query = query.Where("project_id = ?", projectID)
	}

	var files []model.File
	if err := query.Order("updated_at DESC").Find(&files).Error; err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	return files, nil
}

// FileMetadata 返回文件、当前版本与活跃锁的联合视图.
func (s *FileService) FileMetadata(ctx context.Context, fileID string) (*model.File, *model.FileVersion, *model.Lock, error) {
	file, err := s.getFile(ctx, fileID)
	if err != nil {
		return nil, nil, nil, err
	}

	version, err := s.CurrentVersion(ctx, fileID)
	if err != nil {
		return nil, nil, nil, err
	}

	lock, err := s.GetActiveLock(ctx, fileID)
	if err != nil {
		return nil, nil, nil, err
	}

	return file, version, lock, nil
}

// RenameFile 重命名文件，受写保护检查约束.
//
// 新名字经过与对象键相同的清洗；原扩展名强制保留，改名不会让
// 文件"换类型". 只更新元数据，已有对象键不动.
func (s *FileService) RenameFile(ctx context.Context, fileID, actor, newName string) (*model.File, error) {
	trimmed := strings.TrimSpace(newName)
	if strings.Trim(trimmed, "._") == "" {
		return nil, &ValidationError{Field: "new_name", Reason: "must contain at least one printable character"}
	}

	cleaned := safeFileName(trimmed)

	var renamed model.File

	err := s.dbClient.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureWritableTx(tx, fileID, actor); err != nil {
			return err
		}

		var file model.File
		if err := rowLock(tx).First(&file, "id = ?", fileID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Entity: "file", ID: fileID}
			}

			return fmt.Errorf("failed to load file for rename: %w", err)
		}

		final := cleaned
		if ext := filepath.Ext(file.Name); ext != "" && !strings.EqualFold(filepath.Ext(final), ext) {
			final += ext
		}

		if err := tx.Model(&model.File{}).Where("id = ?", fileID).
			Update("name", final).Error; err != nil {
			return fmt.Errorf("failed to rename file: %w", err)
		}

		file.Name = final
		renamed = file

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit(ctx, actor, "file.rename", "file", fileID, map[string]string{"new_name": renamed.Name})

	return &renamed, nil
}

// DeleteFile 删除文件及其全部版本，受写保护检查约束.
//
// 元数据是权威状态：事务内先删版本行和文件行，提交后再并行清理
// 对象存储. 对象删除失败只记日志不回滚，残留对象可由存储端的
// 生命周期策略兜底.
func (s *FileService) DeleteFile(ctx context.Context, fileID, actor string) (int, error) {
	var objectKeys []string

	err := s.dbClient.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureWritableTx(tx, fileID, actor); err != nil {
			return err
		}

		var file model.File
		if err := rowLock(tx).First(&file, "id = ?", fileID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Entity: "file", ID: fileID}
			}

			return fmt.Errorf("failed to load file for delete: %w", err)
		}

		var versions []model.FileVersion
		if err := tx.Where("file_id = ?", fileID).Find(&versions).Error; err != nil {
			return fmt.Errorf("failed to collect versions for delete: %w", err)
		}

		for _, v := range versions {
			objectKeys = append(objectKeys, v.ObjectKey)
		}

		if err := tx.Where("file_id = ?", fileID).Delete(&model.FileVersion{}).Error; err != nil {
			return fmt.Errorf("failed to delete file versions: %w", err)
		}

		// 锁行一并清掉，文件没了锁也没有意义
		if err := tx.Where("file_id = ?", fileID).Delete(&model.Lock{}).Error; err != nil {
			return fmt.Errorf("failed to delete file locks: %w", err)
		}

		if err := tx.Delete(&model.File{}, "id = ?", fileID).Error; err != nil {
			return fmt.Errorf("failed to delete file: %w", err)
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	s.cleanupObjects(ctx, fileID, objectKeys)
	s.publishFileDeleted(ctx, fileID, len(objectKeys))
	s.audit(ctx, actor, "file.delete", "file", fileID, map[string]string{
		"versions": fmt.Sprintf("%d", len(objectKeys)),
	})

	return len(objectKeys), nil
}

// cleanupObjects 并行尽力删除对象，失败只记日志.
func (s *FileService) cleanupObjects(ctx context.Context, fileID string, objectKeys []string) {
	if len(objectKeys) == 0 {
		return
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cleanupConcurrency)

	for _, key := range objectKeys {
		g.Go(func() error {
			if err := s.store.RemoveObject(gctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
				nlog.Logger().Warn().Err(err).
					Str("file_id", fileID).
					Str("object_key", key).
					Msg("failed to remove object, leaving for lifecycle cleanup")
			}

			return nil
		})
	}

	// 所有子任务都吞掉错误，这里只等待收尾
	_ = g.Wait()
}
