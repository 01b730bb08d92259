package router

import (
	"github.com/gin-gonic/gin"

	"github.com/alsulaimanm93/minifixwood/pkg/internal/handle"
)

// registerFileRoutes 文件元数据、版本链、上传与下载.
func registerFileRoutes(api *gin.RouterGroup) {
	files := api.Group("/files")

	files.POST("", handle.CreateFile)
	files.GET("", handle.ListFiles)
	files.GET("/:fileId", handle.GetFile)
	files.PATCH("/:fileId", handle.RenameFile)
	files.DELETE("/:fileId", handle.DeleteFile)
	files.GET("/:fileId/metadata", handle.FileMetadata)

	files.GET("/:fileId/versions", handle.ListFileVersions)
	files.POST("/:fileId/versions/initiate-upload", handle.InitiateUpload)
	files.POST("/:fileId/versions/complete-upload", handle.CompleteUpload)

	files.POST("/:fileId/presign-download", handle.PresignDownload)
	files.POST("/:fileId/versions/:versionId/presign-download", handle.PresignDownloadVersion)
	files.GET("/:fileId/download", handle.DownloadFile)
	files.GET("/:fileId/versions/:versionId/download", handle.DownloadFileVersion)
	files.GET("/:fileId/preview", handle.PreviewFile)
	files.GET("/:fileId/pdf", handle.StreamPDF)
}
