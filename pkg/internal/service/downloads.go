package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/minio/minio-go/v7"

	appcache "github.com/alsulaimanm93/minifixwood/pkg/cache"
	"github.com/alsulaimanm93/minifixwood/pkg/internal/model"
	"github.com/alsulaimanm93/minifixwood/pkg/internal/types"
)

// maxPresignExpiry 预签名 URL 有效期上限，与 S3 协议一致.
const maxPresignExpiry = 7 * 24 * time.Hour

// presignCacheMargin 缓存 TTL 必须比 URL 有效期短的安全边距，
// 避免把即将过期的 URL 发给客户端.
const presignCacheMargin = time.Minute

// clampPresignExpiry 收敛请求的有效期到 (0, 7d]，0 取默认值.
func clampPresignExpiry(seconds int) time.Duration {
	if seconds <= 0 {
		return DefaultPresignedOpTimeout
	}

	d := time.Duration(seconds) * time.Second
	if d > maxPresignExpiry {
		return maxPresignExpiry
	}

	return d
}

// presignCacheKey 用 xxhash 把签名要素折叠成定长缓存键.
func presignCacheKey(bucket, objectKey string, params url.Values, expiry time.Duration) string {
	sum := xxhash.Sum64String(strings.Join([]string{
		bucket,
		objectKey,
		params.Encode(),
		expiry.String(),
	}, "|"))

	return fmt.Sprintf("presign:get:%016x", sum)
}

// presignGet 生成预签名 GET URL，命中缓存时直接复用.
// 缓存 TTL 严格短于 URL 有效期，临期 URL 不会被复用.
func (s *FileService) presignGet(ctx context.Context, objectKey string, params url.Values, expiry time.Duration) (string, error) {
	mint := func() (string, error) {
		signed, err := s.store.PresignedGetObject(ctx, s.bucket, objectKey, expiry, params)
		if err != nil {
			return "", fmt.Errorf("failed to presign download URL: %w", err)
		}

		return signed.String(), nil
	}

	ttl := expiry - presignCacheMargin
	if s.urlCache == nil || ttl <= 0 {
		return mint()
	}

	return appcache.GetOrSet(ctx, s.urlCache, presignCacheKey(s.bucket, objectKey, params, expiry), mint, ttl)
}

// PresignDownload 为文件当前版本签发下载 URL.
func (s *FileService) PresignDownload(ctx context.Context, fileID string, req types.PresignDownloadRequest) (*types.PresignDownloadResponse, error) {
	file, err := s.getFile(ctx, fileID)
	if err != nil {
		return nil, err
	}

	version, err := s.CurrentVersion(ctx, fileID)
	if err != nil {
		return nil, err
	}

	if version == nil {
		return nil, &NotFoundError{Entity: "current version of file", ID: fileID}
	}

	return s.presignVersion(ctx, file, version, req)
}

// PresignDownloadVersion 为指定历史版本签发下载 URL.
func (s *FileService) PresignDownloadVersion(ctx context.Context, fileID, versionID string, req types.PresignDownloadRequest) (*types.PresignDownloadResponse, error) {
	file, err := s.getFile(ctx, fileID)
	if err != nil {
		return nil, err
	}

	version, err := s.versionByID(ctx, fileID, versionID)
	if err != nil {
		return nil, err
	}

	return s.presignVersion(ctx, file, version, req)
}

func (s *FileService) presignVersion(ctx context.Context, file *model.File, version *model.FileVersion, req types.PresignDownloadRequest) (*types.PresignDownloadResponse, error) {
	contentType := req.ContentType
	if contentType == "" {
		contentType = file.Mime
	}

	disposition := req.Disposition
	if disposition == "" {
		disposition = "attachment"
	}

	expiry := clampPresignExpiry(req.ExpirySeconds)
	params := buildGetReqParams(contentType, disposition, file.Name)

	signed, err := s.presignGet(ctx, version.ObjectKey, params, expiry)
	if err != nil {
		return nil, err
	}

	s.publishFileAccessed(ctx, file, "presign")

	return &types.PresignDownloadResponse{
		URL:       signed,
		ObjectKey: version.ObjectKey,
		ExpiresIn: int(expiry.Seconds()),
	}, nil
}

// OpenObject 打开文件当前版本的服务端读取流，供 PDF 内联渲染等
// 需要经服务器中转的路径使用. 调用方负责 Close.
func (s *FileService) OpenObject(ctx context.Context, fileID string) (*minio.Object, *model.File, *model.FileVersion, error) {
	file, err := s.getFile(ctx, fileID)
	if err != nil {
		return nil, nil, nil, err
	}

	version, err := s.CurrentVersion(ctx, fileID)
	if err != nil {
		return nil, nil, nil, err
	}

	if version == nil {
		return nil, nil, nil, &NotFoundError{Entity: "current version of file", ID: fileID}
	}

	obj, err := s.store.GetObject(ctx, s.bucket, version.ObjectKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to open object stream: %w", err)
	}

	s.publishFileAccessed(ctx, file, "stream")

	return obj, file, version, nil
}
