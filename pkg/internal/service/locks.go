package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/alsulaimanm93/minifixwood/pkg/internal/model"
	nlog "github.com/alsulaimanm93/minifixwood/pkg/log"
)

// rowLock 给查询追加 FOR UPDATE 行锁.
// SQLite 事务本身串行化写入，也不支持该子句，直接跳过.
func rowLock(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}

	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// AcquireLock 为文件签出独占租约锁.
//
// 同一文件至多一条活跃未过期的锁：已过期的活跃行在此处被惰性翻转为
// 非活跃；同一持有者重复签出幂等返回原锁且不延长租约（续约只走心跳）；
// 他人持有未过期锁时返回 ConflictError.
func (s *FileService) AcquireLock(ctx context.Context, fileID, holder, clientID string, lease time.Duration) (*model.Lock, error) {
	lease = s.lockCfg.ClampLease(lease)

	var out model.Lock

	err := s.dbClient.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 先锁文件行，保证同一文件的签出串行进入临界区
		var file model.File
		if err := rowLock(tx).Select("id").First(&file, "id = ?", fileID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Entity: "file", ID: fileID}
			}

			return fmt.Errorf("failed to load file for lock: %w", err)
		}

		now := time.Now().UTC()

		var existing model.Lock

		err := tx.Where("file_id = ? AND active = ?", fileID, true).First(&existing).Error

		switch {
		case err == nil:
			if !existing.Expired(now) {
				if existing.LockedBy == holder {
					// 幂等签出：返回原租约，不延长
					out = existing

					return nil
				}

				return &ConflictError{FileID: fileID, Holder: existing.LockedBy, ExpiresAt: existing.ExpiresAt}
			}

			// 惰性过期：下一次观察时翻转，无需后台清扫
			if err := tx.Model(&model.Lock{}).Where("id = ?", existing.ID).
				Update("active", false).Error; err != nil {
				return fmt.Errorf("failed to expire stale lock: %w", err)
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			// 无活跃锁，直接新建
		default:
			return fmt.Errorf("failed to query active lock: %w", err)
		}

		fresh := model.Lock{
			FileID:    fileID,
			LockedBy:  holder,
			ClientID:  clientID,
			Mode:      model.LockModeExclusive,
			LockedAt:  now,
			ExpiresAt: now.Add(lease),
			Active:    true,
		}
		if err := tx.Create(&fresh).Error; err != nil {
			return fmt.Errorf("failed to create lock: %w", err)
		}

		out = fresh

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishLockAcquired(ctx, &out)

	return &out, nil
}

// HeartbeatLock 心跳续约：把到期时间推后一个租约周期.
// 仅当锁活跃、未过期且持有者匹配时生效，否则返回 NotFoundError，
// 客户端应视为租约丢失并重新签出.
func (s *FileService) HeartbeatLock(ctx context.Context, lockID, holder string, lease time.Duration) (*model.Lock, error) {
	lease = s.lockCfg.ClampLease(lease)
	now := time.Now().UTC()

	res := s.dbClient.WithContext(ctx).Model(&model.Lock{}).
		Where("id = ? AND active = ? AND locked_by = ? AND expires_at > ?", lockID, true, holder, now).
		Update("expires_at", now.Add(lease))
	if res.Error != nil {
		return nil, fmt.Errorf("failed to renew lock: %w", res.Error)
	}

	if res.RowsAffected == 0 {
		return nil, &NotFoundError{Entity: "active lock", ID: lockID}
	}

	var lock model.Lock
	if err := s.dbClient.WithContext(ctx).First(&lock, "id = ?", lockID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload lock: %w", err)
	}

	return &lock, nil
}

// ReleaseLock 归还锁：条件更新 Active=false.
// 已过期但尚未翻转的锁允许本人归还；锁不存在、已释放或持有者不符时
// 返回 NotFoundError.
func (s *FileService) ReleaseLock(ctx context.Context, lockID, holder string) error {
	res := s.dbClient.WithContext(ctx).Model(&model.Lock{}).
		Where("id = ? AND active = ? AND locked_by = ?", lockID, true, holder).
		Update("active", false)
	if res.Error != nil {
		return fmt.Errorf("failed to release lock: %w", res.Error)
	}

	if res.RowsAffected == 0 {
		return &NotFoundError{Entity: "active lock", ID: lockID}
	}

	s.publishLockReleased(ctx, lockID, holder)

	return nil
}

// GetActiveLock 返回文件当前活跃未过期的锁，没有则返回 nil.
// 遇到已过期的活跃行顺手翻转，保持"至多一条活跃行"的不变式收敛.
func (s *FileService) GetActiveLock(ctx context.Context, fileID string) (*model.Lock, error) {
	var lock model.Lock

	err := s.dbClient.WithContext(ctx).
		Where("file_id = ? AND active = ?", fileID, true).
		First(&lock).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to query active lock: %w", err)
	}

	if lock.Expired(time.Now().UTC()) {
		if err := s.dbClient.WithContext(ctx).Model(&model.Lock{}).
			Where("id = ? AND active = ?", lock.ID, true).
			Update("active", false).Error; err != nil {
			nlog.Logger().Warn().Err(err).Str("lock_id", lock.ID).Msg("failed to lazily expire lock")
		}

		return nil, nil
	}

	return &lock, nil
}
