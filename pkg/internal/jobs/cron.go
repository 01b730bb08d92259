// Package jobs 注册后台定时任务：统计快照与锁数量刷新.
package jobs

import (
	"context"
	"errors"
	"time"

	ctxPkg "github.com/alsulaimanm93/minifixwood/pkg/context"
	"github.com/alsulaimanm93/minifixwood/pkg/internal/model"
	"github.com/alsulaimanm93/minifixwood/pkg/internal/storage"
	"github.com/alsulaimanm93/minifixwood/pkg/log"
	"github.com/alsulaimanm93/minifixwood/pkg/metrics"
	"github.com/alsulaimanm93/minifixwood/pkg/scheduler"
)

var errDBUnavailable = errors.New("db client not available")

// RegisterCronJobs 注册全部定时任务.
// 任务只读取数据库做计数，不回写任何行，过期锁的失活仍由请求路径惰性处理.
func RegisterCronJobs(sched *scheduler.Scheduler, mgr *storage.Manager) error {
	baseCtx := ctxPkg.WithStorageManager(context.Background(), mgr)

	if err := sched.AddCron(JobStatsSnapshotNightly, CronStatsSnapshotNightly, statsSnapshot, baseCtx); err != nil {
		return err
	}

	if err := sched.AddCron(JobLockGaugeHourly, CronLockGaugeHourly, lockGaugeRefresh, baseCtx); err != nil {
		return err
	}

	return nil
}

// statsSnapshot 每晚统计文件、版本与活跃锁的总量并写入指标.
func statsSnapshot(ctx context.Context) {
	dbClient := ctxPkg.GetDBClient(ctx)
	if dbClient == nil || dbClient.DB == nil {
		log.Logger().Warn().Str("job", JobStatsSnapshotNightly).Msg("db client not available, skipping stats snapshot")

		return
	}

	db := dbClient.DB.WithContext(ctx)

	var files, versions int64

	if err := db.Model(&model.File{}).Count(&files).Error; err != nil {
		log.Logger().Error().Err(err).Str("job", JobStatsSnapshotNightly).Msg("failed to count files")

		return
	}

	if err := db.Model(&model.FileVersion{}).Count(&versions).Error; err != nil {
		log.Logger().Error().Err(err).Str("job", JobStatsSnapshotNightly).Msg("failed to count file versions")

		return
	}

	locks, err := countActiveLocks(ctx)
	if err != nil {
		log.Logger().Error().Err(err).Str("job", JobStatsSnapshotNightly).Msg("failed to count active locks")

		return
	}

	metrics.FilesTotal.Set(float64(files))
	metrics.FileVersionsTotal.Set(float64(versions))
	metrics.ActiveLocksTotal.Set(float64(locks))

	log.Logger().Info().
		Str("job", JobStatsSnapshotNightly).
		Int64("files", files).
		Int64("versions", versions).
		Int64("active_locks", locks).
		Msg("stats snapshot recorded")
}

// lockGaugeRefresh 每小时刷新活跃锁数量指标.
func lockGaugeRefresh(ctx context.Context) {
	locks, err := countActiveLocks(ctx)
	if err != nil {
		log.Logger().Error().Err(err).Str("job", JobLockGaugeHourly).Msg("failed to count active locks")

		return
	}

	metrics.ActiveLocksTotal.Set(float64(locks))
}

// countActiveLocks 统计未过期的活跃锁. 只计数，不把过期行翻转为失活，
// 避免后台任务与请求路径争抢锁行.
func countActiveLocks(ctx context.Context) (int64, error) {
	dbClient := ctxPkg.GetDBClient(ctx)
	if dbClient == nil || dbClient.DB == nil {
		return 0, errDBUnavailable
	}

	var locks int64

	err := dbClient.DB.WithContext(ctx).
		Model(&model.Lock{}).
		Where("active = ? AND expires_at > ?", true, time.Now()).
		Count(&locks).Error

	return locks, err
}
