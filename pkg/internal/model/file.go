// Package model 定义数据库模型，DB 为元数据真源，对象存储只存字节.
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// File 文件元数据模型.
// CurrentVersionID 指向版本链中的最新版本；SizeBytes 镜像当前版本的大小，
// 便于列表页直接展示而不用联表.
type File struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`
	// 所属项目，可为空（如公司级模板文件）
	ProjectID *string `gorm:"size:36;index"  json:"project_id,omitempty"`
	// 业务分类：invoice、payroll、drawing 等，由上层业务决定
	Kind string `gorm:"size:64;index"  json:"kind"`
	Name string `gorm:"size:255;index" json:"name"`
	Mime string `gorm:"size:255"       json:"mime"`
	// 当前版本的字节数镜像
	SizeBytes int64 `gorm:"default:0" json:"size_bytes"`
	// 当前（最新）版本指针，文件刚创建尚未上传时为空
	CurrentVersionID *string   `gorm:"size:36"        json:"current_version_id,omitempty"`
	CreatedBy        string    `gorm:"size:255;index" json:"created_by"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// BeforeCreate 生成 UUID 主键.
func (f *File) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}

	return nil
}

// FileVersion 不可变版本行，追加后不再更新.
// (FileID, VersionNo) 唯一索引是版本号原子性的最后防线.
type FileVersion struct {
	ID     string `gorm:"primaryKey;size:36"                      json:"id"`
	FileID string `gorm:"size:36;index;index:idx_file_ver,unique" json:"file_id"`
	// 单调递增版本号，从 1 开始，无空洞
	VersionNo int `gorm:"index:idx_file_ver,unique" json:"version_no"`
	// 对象存储键：files/{fileID}/{token}/{safeName}
	ObjectKey string `gorm:"size:1024" json:"object_key"`
	// 客户端申报的内容哈希，服务端不复算
	SHA256 string `gorm:"size:64" json:"sha256,omitempty"`
	// 对象存储返回的 ETag，仅用于缓存校验，不作为内容哈希
	ETag      string    `gorm:"size:64"        json:"etag,omitempty"`
	SizeBytes int64     `json:"size_bytes"`
	CreatedBy string    `gorm:"size:255;index" json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate 生成 UUID 主键.
func (v *FileVersion) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}

	return nil
}

// AllModels 返回需要 AutoMigrate 的全部模型.
func AllModels() []any {
	return []any{
		&File{},
		&FileVersion{},
		&Lock{},
	}
}
