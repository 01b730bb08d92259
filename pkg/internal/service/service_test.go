package service

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/minio/minio-go/v7"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/alsulaimanm93/minifixwood/pkg/configs"
	"github.com/alsulaimanm93/minifixwood/pkg/internal/model"
	dbc "github.com/alsulaimanm93/minifixwood/pkg/internal/storage/db"
	"github.com/alsulaimanm93/minifixwood/pkg/internal/types"
)

const testBucket = "minifixwood-test"

// stubStore 记录调用的对象存储存根，预签名返回可预测的 URL.
type stubStore struct {
	mu          sync.Mutex
	putCalls    int
	getCalls    int
	removedKeys []string
}

func (s *stubStore) PresignedPutObject(_ context.Context, bucketName, objectName string, expires time.Duration) (*url.URL, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.putCalls++

	return url.Parse(fmt.Sprintf("https://s3.test/%s/%s?X-Amz-Expires=%d&call=%d",
		bucketName, objectName, int(expires.Seconds()), s.putCalls))
}

func (s *stubStore) PresignedGetObject(_ context.Context, bucketName, objectName string, expires time.Duration, reqParams url.Values) (*url.URL, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.getCalls++

	return url.Parse(fmt.Sprintf("https://s3.test/%s/%s?%s&X-Amz-Expires=%d&call=%d",
		bucketName, objectName, reqParams.Encode(), int(expires.Seconds()), s.getCalls))
}

func (s *stubStore) GetObject(context.Context, string, string, minio.GetObjectOptions) (*minio.Object, error) {
	return nil, fmt.Errorf("stub store does not serve object streams")
}

func (s *stubStore) RemoveObject(_ context.Context, _, objectName string, _ minio.RemoveObjectOptions) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.removedKeys = append(s.removedKeys, objectName)

	return nil
}

func (s *stubStore) removed() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, len(s.removedKeys))
	copy(out, s.removedKeys)

	return out
}

// newTestService 构造内存 sqlite 上的服务实例.
func newTestService(t *testing.T) (*FileService, *stubStore) {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := gdb.AutoMigrate(model.AllModels()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	store := &stubStore{}
	lockCfg := configs.LockConfig{
		LeaseMinutes:    configs.DefaultLockLeaseMinutes,
		MaxLeaseMinutes: configs.DefaultLockMaxLeaseMinutes,
	}

	return NewFileServiceWith(&dbc.Client{DB: gdb}, store, testBucket, lockCfg), store
}

// mustCreateFile 创建一个测试文件.
func mustCreateFile(t *testing.T, svc *FileService, name string) *model.File {
	t.Helper()

	file, err := svc.CreateFile(context.Background(), "alice", types.CreateFileRequest{
		Name: name,
		Kind: "invoice",
		Mime: "application/pdf",
	})
	if err != nil {
		t.Fatalf("create file: %v", err)
	}

	return file
}

// mustComplete 走完一次两阶段上传并返回提交结果.
func mustComplete(t *testing.T, svc *FileService, fileID, actor string, size int64) *types.CompleteUploadResponse {
	t.Helper()

	ctx := context.Background()

	initiated, err := svc.InitiateUpload(ctx, fileID, types.InitiateUploadRequest{FileName: "doc.pdf"})
	if err != nil {
		t.Fatalf("initiate upload: %v", err)
	}

	completed, err := svc.CompleteUpload(ctx, fileID, actor, types.CompleteUploadRequest{
		ObjectKey: initiated.ObjectKey,
		Size:      size,
	})
	if err != nil {
		t.Fatalf("complete upload: %v", err)
	}

	return completed
}

// reloadLock 直接从库里重读锁行.
func reloadLock(t *testing.T, svc *FileService, lockID string) *model.Lock {
	t.Helper()

	var lock model.Lock
	if err := svc.dbClient.First(&lock, "id = ?", lockID).Error; err != nil {
		t.Fatalf("reload lock: %v", err)
	}

	return &lock
}

// backdateLock 把锁的到期时间改到过去，模拟租约过期.
func backdateLock(t *testing.T, svc *FileService, lockID string) {
	t.Helper()

	if err := svc.dbClient.Model(&model.Lock{}).
		Where("id = ?", lockID).
		Update("expires_at", time.Now().UTC().Add(-time.Minute)).Error; err != nil {
		t.Fatalf("backdate lock: %v", err)
	}
}
