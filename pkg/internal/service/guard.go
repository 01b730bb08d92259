package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/alsulaimanm93/minifixwood/pkg/internal/model"
)

// ensureWritableTx 写保护检查，在事务内调用.
//
// 文件无锁或锁已过期（顺手翻转为非活跃）时放行；锁由 actor 本人持有时
// 放行；否则返回 ConflictError. 重命名、删除与提交上传都经过这里.
func ensureWritableTx(tx *gorm.DB, fileID, actor string) error {
	var lock model.Lock

	err := tx.Where("file_id = ? AND active = ?", fileID, true).First(&lock).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}

		return fmt.Errorf("failed to query lock for write guard: %w", err)
	}

	if lock.Expired(time.Now().UTC()) {
		if err := tx.Model(&model.Lock{}).Where("id = ?", lock.ID).
			Update("active", false).Error; err != nil {
			return fmt.Errorf("failed to expire stale lock: %w", err)
		}

		return nil
	}

	if lock.LockedBy == actor {
		return nil
	}

	return &ConflictError{FileID: fileID, Holder: lock.LockedBy, ExpiresAt: lock.ExpiresAt}
}

// EnsureWritable 独立事务版本的写保护检查，供事务外的调用方使用.
func (s *FileService) EnsureWritable(ctx context.Context, fileID, actor string) error {
	return s.dbClient.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return ensureWritableTx(tx, fileID, actor)
	})
}
