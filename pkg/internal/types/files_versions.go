package types

import "time"

// FileVersionInfo 表示单个文件版本的元信息.
type FileVersionInfo struct {
	VersionID string    `json:"version_id"`
	FileID    string    `json:"file_id"`
	VersionNo int       `json:"version_no"`
	IsLatest  bool      `json:"is_latest"`
	ObjectKey string    `json:"object_key"`
	SizeBytes int64     `json:"size_bytes"`
	SHA256    string    `json:"sha256,omitempty"`
	ETag      string    `json:"etag,omitempty"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// ListFileVersionsResponse 获取文件版本列表响应，按版本号从新到旧排列.
type ListFileVersionsResponse struct {
	FileID   string            `json:"file_id"`
	Versions []FileVersionInfo `json:"versions"`
	Total    int               `json:"total"`
}
