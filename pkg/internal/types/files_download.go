package types

// PresignDownloadRequest 申请预签名下载 URL.
type PresignDownloadRequest struct {
	// Disposition 响应处置方式：inline（浏览器内预览）或 attachment（下载）
	Disposition string `json:"disposition,omitempty" rule:"omitempty,oneof=inline attachment"`
	// ContentType 覆盖响应的 Content-Type，默认使用文件记录的 Mime
	ContentType string `json:"content_type,omitempty" rule:"max=255"`
	// ExpirySeconds URL 有效期（秒），超出服务端上限时被收敛
	ExpirySeconds int `json:"expiry_seconds,omitempty" rule:"min=0,max=604800"`
}

// PresignDownloadResponse 预签名下载结果.
type PresignDownloadResponse struct {
	URL       string `json:"url"`
	ObjectKey string `json:"object_key"`
	ExpiresIn int    `json:"expires_in"` // 有效期（秒）
}
