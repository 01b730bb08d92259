package types

// InitiateUploadRequest 两阶段上传第一阶段请求.
// 服务端只生成预签名 PUT URL，不落任何待定状态.
type InitiateUploadRequest struct {
	FileName    string `binding:"required"              json:"file_name"    rule:"required,max=255"`
	ContentType string `json:"content_type,omitempty"  rule:"max=255"`
	// Size 申报的字节数，仅作校验参考，服务端信任提交阶段的申报值
	Size int64 `json:"size,omitempty" rule:"min=0"`
}

// InitiateUploadResponse 预签名上传结果.
type InitiateUploadResponse struct {
	ObjectKey string `json:"object_key"` // 对象键 (上传后的路径)
	PutURL    string `json:"put_url"`    // 上传 URL
	ExpiresIn int    `json:"expires_in"` // 过期时间 (秒)
}

// CompleteUploadRequest 两阶段上传第二阶段（提交点）请求.
// ObjectKey 必须是第一阶段为该文件签发的键；Size/SHA256 采用客户端申报值.
type CompleteUploadRequest struct {
	ObjectKey string `binding:"required"      json:"object_key" rule:"required,max=1024"`
	Size      int64  `json:"size"             rule:"min=0"`
	SHA256    string `json:"sha256,omitempty" rule:"omitempty,len=64,hexadecimal"`
	ETag      string `json:"etag,omitempty"   rule:"max=64"`
}

// CompleteUploadResponse 提交结果，返回新追加的版本.
type CompleteUploadResponse struct {
	FileID    string `json:"file_id"`
	VersionID string `json:"version_id"`
	VersionNo int    `json:"version_no"`
	ObjectKey string `json:"object_key"`
	SizeBytes int64  `json:"size_bytes"`
}
