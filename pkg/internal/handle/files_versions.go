package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alsulaimanm93/minifixwood/pkg/internal/service"
	"github.com/alsulaimanm93/minifixwood/pkg/internal/types"
)

// ListFileVersions 版本链.
//
//	@Summary		版本列表
//	@Description	返回文件的完整版本链，按版本号从新到旧
//	@Tags			版本
//	@Produce		json
//	@Param			fileId	path		string							true	"文件 ID"
//	@Success		200		{object}	types.ListFileVersionsResponse	"版本列表"
//	@Failure		404		{object}	map[string]string				"文件不存在"
//	@Router			/api/v1/files/{fileId}/versions [get]
func ListFileVersions(c *gin.Context) {
	fileID := c.Param("fileId")
	svc := service.NewFileService(c.Request.Context())

	versions, err := svc.ListVersions(c.Request.Context(), fileID)
	if err != nil {
		respondServiceError(c, err)

		return
	}

	var latestID string
	if len(versions) > 0 {
		latestID = versions[0].ID
	}

	resp := types.ListFileVersionsResponse{
		FileID:   fileID,
		Versions: make([]types.FileVersionInfo, 0, len(versions)),
		Total:    len(versions),
	}
	for i := range versions {
		resp.Versions = append(resp.Versions, toVersionInfo(&versions[i], latestID))
	}

	c.JSON(http.StatusOK, resp)
}

// InitiateUpload 两阶段上传第一阶段.
//
//	@Summary		发起上传
//	@Description	签发预签名 PUT URL，客户端直接向对象存储上传字节。服务端不落待定状态，URL 过期即作废
//	@Tags			上传
//	@Accept			json
//	@Produce		json
//	@Param			X-User	header		string							false	"请求方身份"
//	@Param			fileId	path		string							true	"文件 ID"
//	@Param			request	body		types.InitiateUploadRequest		true	"上传请求"
//	@Success		200		{object}	types.InitiateUploadResponse	"预签名上传 URL"
//	@Failure		404		{object}	map[string]string				"文件不存在"
//	@Router			/api/v1/files/{fileId}/versions/initiate-upload [post]
func InitiateUpload(c *gin.Context) {
	if _, err := checkUser(c); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})

		return
	}

	var req types.InitiateUploadRequest
	if !bindAndValidate(c, &req) {
		return
	}

	svc := service.NewFileService(c.Request.Context())

	resp, err := svc.InitiateUpload(c.Request.Context(), c.Param("fileId"), req)
	if err != nil {
		respondServiceError(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}

// CompleteUpload 两阶段上传提交点.
//
//	@Summary		提交上传
//	@Description	把已上传的对象登记为文件的新版本。写保护检查：他人持有未过期锁时返回 409。大小与哈希采用客户端申报值
//	@Tags			上传
//	@Accept			json
//	@Produce		json
//	@Param			X-User	header		string							false	"请求方身份"
//	@Param			fileId	path		string							true	"文件 ID"
//	@Param			request	body		types.CompleteUploadRequest		true	"提交请求"
//	@Success		200		{object}	types.CompleteUploadResponse	"新追加的版本"
//	@Failure		404		{object}	map[string]string				"文件不存在"
//	@Failure		409		{object}	types.LockConflictResponse		"被他人签出"
//	@Failure		422		{object}	map[string]string				"对象键不属于该文件"
//	@Router			/api/v1/files/{fileId}/versions/complete-upload [post]
func CompleteUpload(c *gin.Context) {
	user, err := checkUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})

		return
	}

	var req types.CompleteUploadRequest
	if !bindAndValidate(c, &req) {
		return
	}

	svc := service.NewFileService(c.Request.Context())

	resp, err := svc.CompleteUpload(c.Request.Context(), c.Param("fileId"), user, req)
	if err != nil {
		respondServiceError(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}
