package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alsulaimanm93/minifixwood/pkg/internal/service"
	"github.com/alsulaimanm93/minifixwood/pkg/internal/types"
)

// CreateFile 创建文件元数据.
//
//	@Summary		创建文件
//	@Description	登记文件元数据，此时尚无内容，随后通过两阶段上传追加第一个版本
//	@Tags			文件
//	@Accept			json
//	@Produce		json
//	@Param			X-User	header		string					false	"请求方身份"
//	@Param			request	body		types.CreateFileRequest	true	"创建请求"
//	@Success		201		{object}	types.FileResponse		"新建的文件"
//	@Failure		422		{object}	map[string]string		"参数校验失败"
//	@Router			/api/v1/files [post]
func CreateFile(c *gin.Context) {
	user, err := checkUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})

		return
	}

	var req types.CreateFileRequest
	if !bindAndValidate(c, &req) {
		return
	}

	svc := service.NewFileService(c.Request.Context())

	file, err := svc.CreateFile(c.Request.Context(), user, req)
	if err != nil {
		respondServiceError(c, err)

		return
	}

	c.JSON(http.StatusCreated, toFileResponse(file))
}

// ListFiles 文件列表.
//
//	@Summary		文件列表
//	@Description	按更新时间从新到旧列出文件，可用 project_id 过滤
//	@Tags			文件
//	@Produce		json
//	@Param			project_id	query		string					false	"项目过滤"
//	@Success		200			{object}	types.ListFilesResponse	"文件列表"
//	@Router			/api/v1/files [get]
func ListFiles(c *gin.Context) {
	svc := service.NewFileService(c.Request.Context())

	files, err := svc.ListFiles(c.Request.Context(), c.Query("project_id"))
	if err != nil {
		respondServiceError(c, err)

		return
	}

	resp := types.ListFilesResponse{
		Files: make([]types.FileResponse, 0, len(files)),
		Total: len(files),
	}
	for i := range files {
		resp.Files = append(resp.Files, toFileResponse(&files[i]))
	}

	c.JSON(http.StatusOK, resp)
}

// GetFile 单个文件.
//
//	@Summary		获取文件
//	@Tags			文件
//	@Produce		json
//	@Param			fileId	path		string				true	"文件 ID"
//	@Success		200		{object}	types.FileResponse	"文件"
//	@Failure		404		{object}	map[string]string	"文件不存在"
//	@Router			/api/v1/files/{fileId} [get]
func GetFile(c *gin.Context) {
	svc := service.NewFileService(c.Request.Context())

	file, err := svc.GetFile(c.Request.Context(), c.Param("fileId"))
	if err != nil {
		respondServiceError(c, err)

		return
	}

	c.JSON(http.StatusOK, toFileResponse(file))
}

// FileMetadata 文件 + 当前版本 + 锁状态联合视图.
//
//	@Summary		文件元数据
//	@Description	返回文件、当前版本与活跃锁的联合视图，供客户端决定是否允许签出
//	@Tags			文件
//	@Produce		json
//	@Param			fileId	path		string						true	"文件 ID"
//	@Success		200		{object}	types.FileMetadataResponse	"联合视图"
//	@Failure		404		{object}	map[string]string			"文件不存在"
//	@Router			/api/v1/files/{fileId}/metadata [get]
func FileMetadata(c *gin.Context) {
	svc := service.NewFileService(c.Request.Context())

	file, version, lock, err := svc.FileMetadata(c.Request.Context(), c.Param("fileId"))
	if err != nil {
		respondServiceError(c, err)

		return
	}

	resp := types.FileMetadataResponse{File: toFileResponse(file)}

	if version != nil {
		info := toVersionInfo(version, version.ID)
		resp.CurrentVersion = &info
	}

	if lock != nil {
		lr := toLockResponse(lock)
		resp.Lock = &lr
	}

	c.JSON(http.StatusOK, resp)
}

// RenameFile 重命名.
//
//	@Summary		重命名文件
//	@Description	受写保护检查约束：他人持有未过期锁时返回 409。原扩展名由服务端保留
//	@Tags			文件
//	@Accept			json
//	@Produce		json
//	@Param			X-User	header		string						false	"请求方身份"
//	@Param			fileId	path		string						true	"文件 ID"
//	@Param			request	body		types.RenameFileRequest		true	"重命名请求"
//	@Success		200		{object}	types.FileResponse			"重命名后的文件"
//	@Failure		404		{object}	map[string]string			"文件不存在"
//	@Failure		409		{object}	types.LockConflictResponse	"被他人签出"
//	@Router			/api/v1/files/{fileId} [patch]
func RenameFile(c *gin.Context) {
	user, err := checkUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})

		return
	}

	var req types.RenameFileRequest
	if !bindAndValidate(c, &req) {
		return
	}

	svc := service.NewFileService(c.Request.Context())

	file, err := svc.RenameFile(c.Request.Context(), c.Param("fileId"), user, req.NewName)
	if err != nil {
		respondServiceError(c, err)

		return
	}

	c.JSON(http.StatusOK, toFileResponse(file))
}

// DeleteFile 删除.
//
//	@Summary		删除文件
//	@Description	受写保护检查约束。元数据（文件、版本、锁行）在事务内删除，对象随后尽力清理
//	@Tags			文件
//	@Produce		json
//	@Param			X-User	header		string						false	"请求方身份"
//	@Param			fileId	path		string						true	"文件 ID"
//	@Success		200		{object}	types.DeleteFileResponse	"删除结果"
//	@Failure		404		{object}	map[string]string			"文件不存在"
//	@Failure		409		{object}	types.LockConflictResponse	"被他人签出"
//	@Router			/api/v1/files/{fileId} [delete]
func DeleteFile(c *gin.Context) {
	user, err := checkUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})

		return
	}

	svc := service.NewFileService(c.Request.Context())

	deleted, err := svc.DeleteFile(c.Request.Context(), c.Param("fileId"), user)
	if err != nil {
		respondServiceError(c, err)

		return
	}

	c.JSON(http.StatusOK, types.DeleteFileResponse{
		FileID:          c.Param("fileId"),
		DeletedVersions: deleted,
		Success:         true,
	})
}
