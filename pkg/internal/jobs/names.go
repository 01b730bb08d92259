package jobs

// 任务名与 cron 表达式常量，调度器按名称去重.
const (
	JobStatsSnapshotNightly = "stats.snapshot.nightly"
	JobLockGaugeHourly      = "locks.gauge.refresh"

	CronStatsSnapshotNightly = "20 1 * * *"
	CronLockGaugeHourly      = "5 * * * *"
)
