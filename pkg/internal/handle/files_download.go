package handle

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alsulaimanm93/minifixwood/pkg/internal/service"
	"github.com/alsulaimanm93/minifixwood/pkg/internal/types"
	"github.com/alsulaimanm93/minifixwood/pkg/log"
)

// PresignDownload 签发当前版本的下载 URL.
//
//	@Summary		获取下载 URL
//	@Description	为文件当前版本签发预签名 GET URL，可覆盖响应的 Content-Type 与 Content-Disposition
//	@Tags			下载
//	@Accept			json
//	@Produce		json
//	@Param			fileId	path		string							true	"文件 ID"
//	@Param			request	body		types.PresignDownloadRequest	true	"下载请求"
//	@Success		200		{object}	types.PresignDownloadResponse	"预签名 URL"
//	@Failure		404		{object}	map[string]string				"文件或版本不存在"
//	@Router			/api/v1/files/{fileId}/presign-download [post]
func PresignDownload(c *gin.Context) {
	var req types.PresignDownloadRequest
	if !bindAndValidate(c, &req) {
		return
	}

	svc := service.NewFileService(c.Request.Context())

	resp, err := svc.PresignDownload(c.Request.Context(), c.Param("fileId"), req)
	if err != nil {
		respondServiceError(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}

// PresignDownloadVersion 签发指定历史版本的下载 URL.
//
//	@Summary		获取历史版本下载 URL
//	@Tags			下载
//	@Accept			json
//	@Produce		json
//	@Param			fileId		path		string							true	"文件 ID"
//	@Param			versionId	path		string							true	"版本 ID"
//	@Param			request		body		types.PresignDownloadRequest	true	"下载请求"
//	@Success		200			{object}	types.PresignDownloadResponse	"预签名 URL"
//	@Failure		404			{object}	map[string]string				"文件或版本不存在"
//	@Router			/api/v1/files/{fileId}/versions/{versionId}/presign-download [post]
func PresignDownloadVersion(c *gin.Context) {
	var req types.PresignDownloadRequest
	if !bindAndValidate(c, &req) {
		return
	}

	svc := service.NewFileService(c.Request.Context())

	resp, err := svc.PresignDownloadVersion(c.Request.Context(),
		c.Param("fileId"), c.Param("versionId"), req)
	if err != nil {
		respondServiceError(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}

// DownloadFile 302 跳转到当前版本的预签名 URL.
//
//	@Summary		下载文件
//	@Description	重定向到当前版本的预签名 GET URL，按附件下载；?inline=1 时浏览器内打开
//	@Tags			下载
//	@Param			fileId	path	string	true	"文件 ID"
//	@Param			inline	query	bool	false	"浏览器内打开"
//	@Success		302		"跳转到预签名 URL"
//	@Failure		404		{object}	map[string]string	"文件或版本不存在"
//	@Router			/api/v1/files/{fileId}/download [get]
func DownloadFile(c *gin.Context) {
	redirectToPresigned(c, c.Param("fileId"), "", c.Query("inline") == "1")
}

// DownloadFileVersion 302 跳转到历史版本的预签名 URL.
//
//	@Summary		下载历史版本
//	@Tags			下载
//	@Param			fileId		path	string	true	"文件 ID"
//	@Param			versionId	path	string	true	"版本 ID"
//	@Param			inline		query	bool	false	"浏览器内打开"
//	@Success		302			"跳转到预签名 URL"
//	@Failure		404			{object}	map[string]string	"文件或版本不存在"
//	@Router			/api/v1/files/{fileId}/versions/{versionId}/download [get]
func DownloadFileVersion(c *gin.Context) {
	redirectToPresigned(c, c.Param("fileId"), c.Param("versionId"), c.Query("inline") == "1")
}

// PreviewFile 302 跳转，固定浏览器内预览.
//
//	@Summary		预览文件
//	@Description	重定向到当前版本的预签名 URL，Content-Disposition 固定为 inline
//	@Tags			下载
//	@Param			fileId	path	string	true	"文件 ID"
//	@Success		302		"跳转到预签名 URL"
//	@Failure		404		{object}	map[string]string	"文件或版本不存在"
//	@Router			/api/v1/files/{fileId}/preview [get]
func PreviewFile(c *gin.Context) {
	redirectToPresigned(c, c.Param("fileId"), "", true)
}

// redirectToPresigned 签发 URL 并 302.
func redirectToPresigned(c *gin.Context, fileID, versionID string, inline bool) {
	req := types.PresignDownloadRequest{}
	if inline {
		req.Disposition = "inline"
	}

	svc := service.NewFileService(c.Request.Context())

	var (
		resp *types.PresignDownloadResponse
		err  error
	)

	if versionID == "" {
		resp, err = svc.PresignDownload(c.Request.Context(), fileID, req)
	} else {
		resp, err = svc.PresignDownloadVersion(c.Request.Context(), fileID, versionID, req)
	}

	if err != nil {
		respondServiceError(c, err)

		return
	}

	c.Redirect(http.StatusFound, resp.URL)
}

// StreamPDF 服务端中转 PDF 流，供内嵌查看器使用.
//
//	@Summary		PDF 内联流
//	@Description	经服务器中转读取当前版本的对象流，以 inline 方式输出。适用于禁止直连对象存储的内嵌 PDF 查看器
//	@Tags			下载
//	@Produce		application/pdf
//	@Param			fileId	path		string	true	"文件 ID"
//	@Success		200		{file}		file	"PDF 字节流"
//	@Failure		404		{object}	map[string]string	"文件或版本不存在"
//	@Router			/api/v1/files/{fileId}/pdf [get]
func StreamPDF(c *gin.Context) {
	svc := service.NewFileService(c.Request.Context())

	obj, file, version, err := svc.OpenObject(c.Request.Context(), c.Param("fileId"))
	if err != nil {
		respondServiceError(c, err)

		return
	}
	defer func() {
		if closeErr := obj.Close(); closeErr != nil {
			log.Logger().Warn().Err(closeErr).Str("file_id", file.ID).Msg("failed to close object stream")
		}
	}()

	contentType := file.Mime
	if contentType == "" {
		contentType = "application/pdf"
	}

	c.DataFromReader(http.StatusOK, version.SizeBytes, contentType, obj, map[string]string{
		"Content-Disposition": fmt.Sprintf(`inline; filename="%s"`, file.Name),
	})
}
