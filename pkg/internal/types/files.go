package types

import "time"

// CreateFileRequest 创建文件元数据请求，此时尚无内容，待后续上传第一个版本.
type CreateFileRequest struct {
	ProjectID string `json:"project_id,omitempty" rule:"omitempty,uuid4"`
	Kind      string `json:"kind,omitempty"       rule:"max=64"`
	Name      string `binding:"required"          json:"name"            rule:"required,max=255"`
	Mime      string `json:"mime,omitempty"       rule:"max=255"`
}

// RenameFileRequest 重命名请求，扩展名由服务端保留.
type RenameFileRequest struct {
	NewName string `binding:"required" json:"new_name" rule:"required,max=255"`
}

// FileResponse 文件元数据响应.
type FileResponse struct {
	ID               string    `json:"id"`
	ProjectID        string    `json:"project_id,omitempty"`
	Kind             string    `json:"kind,omitempty"`
	Name             string    `json:"name"`
	Mime             string    `json:"mime,omitempty"`
	SizeBytes        int64     `json:"size_bytes"`
	CurrentVersionID string    `json:"current_version_id,omitempty"`
	CreatedBy        string    `json:"created_by"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ListFilesResponse 文件列表响应.
type ListFilesResponse struct {
	Files []FileResponse `json:"files"`
	Total int            `json:"total"`
}

// DeleteFileResponse 删除结果.
type DeleteFileResponse struct {
	FileID string `json:"file_id"`
	// DeletedVersions 被级联删除的版本数
	DeletedVersions int  `json:"deleted_versions"`
	Success         bool `json:"success"`
}

// FileMetadataResponse 文件 + 当前版本联合视图.
type FileMetadataResponse struct {
	File FileResponse `json:"file"`
	// CurrentVersion 当前版本详情，文件尚无版本时为空
	CurrentVersion *FileVersionInfo `json:"current_version,omitempty"`
	// Lock 当前活跃未过期的锁，没有时为空
	Lock *LockResponse `json:"lock,omitempty"`
}
