package service

import (
	"context"
	crand "crypto/rand"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/oklog/ulid"
	"gorm.io/gorm"

	"github.com/alsulaimanm93/minifixwood/pkg/internal/model"
)

// maxSafeNameLen 对象键里文件名片段的长度上限.
const maxSafeNameLen = 200

var ulidEntropy = ulid.Monotonic(crand.Reader, 0)

// newUploadToken 生成上传令牌，作为对象键的随机片段.
// 同名文件的各版本因令牌不同而互不覆盖.
func newUploadToken() string {
	return strings.ToLower(ulid.MustNew(ulid.Timestamp(time.Now()), ulidEntropy).String())
}

// safeFileName 清洗文件名用于对象键：去掉路径成分，
// 非 [A-Za-z0-9._-] 的字符替换为下划线，超长截断.
func safeFileName(name string) string {
	// 同时处理正反斜杠，客户端可能来自 Windows
	if idx := strings.LastIndexAny(name, "/\\"); idx >= 0 {
		name = name[idx+1:]
	}

	var b strings.Builder

	b.Grow(len(name))

	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}

	out := b.String()
	if len(out) > maxSafeNameLen {
		out = out[:maxSafeNameLen]
	}

	if strings.Trim(out, "._") == "" {
		return "file"
	}

	return out
}

// buildObjectKey 组装对象键：files/{fileID}/{token}/{safeName}.
func buildObjectKey(fileID, token, safeName string) string {
	return fmt.Sprintf("files/%s/%s/%s", fileID, token, safeName)
}

// objectKeyPrefix 某文件全部对象的键前缀，提交时校验键的归属.
func objectKeyPrefix(fileID string) string {
	return fmt.Sprintf("files/%s/", fileID)
}

// buildGetReqParams 构造预签名 GET 的响应头覆盖参数.
func buildGetReqParams(contentType, disposition, fileName string) url.Values {
	params := make(url.Values)

	if contentType != "" {
		params.Set("response-content-type", contentType)
	}

	if disposition != "" {
		if fileName != "" {
			params.Set("response-content-disposition",
				fmt.Sprintf(`%s; filename="%s"`, disposition, safeFileName(fileName)))
		} else {
			params.Set("response-content-disposition", disposition)
		}
	}

	return params
}

// getFile 加载文件元数据.
func (s *FileService) getFile(ctx context.Context, fileID string) (*model.File, error) {
	var file model.File
	if err := s.dbClient.WithContext(ctx).First(&file, "id = ?", fileID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "file", ID: fileID}
		}

		return nil, fmt.Errorf("failed to load file: %w", err)
	}

	return &file, nil
}

// mustFileExist 只校验存在性，不取整行.
func (s *FileService) mustFileExist(ctx context.Context, fileID string) error {
	var count int64
	if err := s.dbClient.WithContext(ctx).Model(&model.File{}).
		Where("id = ?", fileID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check file existence: %w", err)
	}

	if count == 0 {
		return &NotFoundError{Entity: "file", ID: fileID}
	}

	return nil
}
