package service

import (
	"context"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"

	appcache "github.com/alsulaimanm93/minifixwood/pkg/cache"
	"github.com/alsulaimanm93/minifixwood/pkg/configs"
	ctxPkg "github.com/alsulaimanm93/minifixwood/pkg/context"
	dbc "github.com/alsulaimanm93/minifixwood/pkg/internal/storage/db"
	mqc "github.com/alsulaimanm93/minifixwood/pkg/internal/storage/mq"
	nlog "github.com/alsulaimanm93/minifixwood/pkg/log"
)

// DefaultPresignedOpTimeout 预签名 URL 默认有效期.
const DefaultPresignedOpTimeout = 15 * time.Minute

// ObjectStore 抽象对象存储操作，minio.Client 天然满足，测试中用存根替换.
type ObjectStore interface {
	PresignedPutObject(ctx context.Context, bucketName, objectName string, expires time.Duration) (*url.URL, error)
	PresignedGetObject(ctx context.Context, bucketName, objectName string, expires time.Duration, reqParams url.Values) (*url.URL, error)
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (*minio.Object, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
}

// FileService 文件仓库核心服务：元数据、租约锁、版本链、上传与访问代理.
type FileService struct {
	store    ObjectStore
	dbClient *dbc.Client
	mqClient *mqc.Client
	urlCache *appcache.Cache

	bucket  string
	lockCfg configs.LockConfig
}

// NewFileService 从上下文取出存储管理器构造服务，缺少依赖直接 Fatal.
func NewFileService(c context.Context) *FileService {
	s3Client := ctxPkg.GetS3Client(c)
	if s3Client == nil {
		nlog.Logger().Fatal().Msg("S3 client not found in context")
	}

	dbClient := ctxPkg.GetDBClient(c)
	if dbClient == nil {
		nlog.Logger().Fatal().Msg("DB client not found in context")
	}

	mqClient := ctxPkg.GetMQClient(c)
	if mqClient == nil {
		nlog.Logger().Fatal().Msg("MQ client not found in context")
	}

	kvClient := ctxPkg.GetKVClient(c)
	if kvClient == nil {
		nlog.Logger().Fatal().Msg("KV client not found in context")
	}

	cfg := configs.GetConfig()

	return &FileService{
		store:    s3Client.Client,
		dbClient: dbClient,
		mqClient: mqClient,
		urlCache: appcache.NewCache(kvClient),
		bucket:   cfg.S3.BucketName,
		lockCfg:  cfg.Lock,
	}
}

// NewFileServiceWith 以显式依赖构造服务，供测试注入内存库与存根对象存储.
// MQ 与 URL 缓存留空，对应能力自动降级.
func NewFileServiceWith(dbClient *dbc.Client, store ObjectStore, bucket string, lockCfg configs.LockConfig) *FileService {
	return &FileService{
		store:    store,
		dbClient: dbClient,
		bucket:   bucket,
		lockCfg:  lockCfg,
	}
}

var _ ObjectStore = (*minio.Client)(nil)
