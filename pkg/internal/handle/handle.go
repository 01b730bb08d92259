// Package handle 提供 HTTP 请求处理器，把请求映射到业务服务并统一错误语义.
package handle

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/alsulaimanm93/minifixwood/pkg/internal/service"
	"github.com/alsulaimanm93/minifixwood/pkg/internal/types"
	"github.com/alsulaimanm93/minifixwood/pkg/log"
	"github.com/alsulaimanm93/minifixwood/pkg/rule"
)

// checkUser 提取请求方身份：认证代理注入的 Header 优先 -> X-User ->
// query 参数 -> 非 Release 模式下的测试默认值.
func checkUser(c *gin.Context) (string, error) {
	user := c.GetHeader("X-Auth-Request-Email")
	if user == "" {
		user = c.GetHeader("X-User")
	}

	if user == "" {
		user = c.Query("user")
	}

	if user == "" && gin.Mode() != gin.ReleaseMode {
		user = "test-user@example.com"
	}

	user = strings.TrimSpace(user)

	if err := rule.ValidateVar(user, "required,max=255"); err != nil {
		return "", err
	}

	return user, nil
}

// bindAndValidate 绑定 JSON 请求体并跑 rule 标签校验.
// 绑定失败回 400，校验失败回 422，两者都已写响应.
func bindAndValidate(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		log.Logger().Warn().Err(err).Str("path", c.Request.URL.Path).Msg("invalid request body")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return false
	}

	if err := rule.ValidateStruct(req); err != nil {
		respondValidation(c, err)

		return false
	}

	return true
}

// respondValidation 把校验错误写成 422，带字段明细.
func respondValidation(c *gin.Context, err error) {
	resp := gin.H{"error": "validation failed"}
	if fields := rule.Errors(err); len(fields) > 0 {
		resp["fields"] = fields
	} else {
		resp["error"] = err.Error()
	}

	c.JSON(http.StatusUnprocessableEntity, resp)
}

// respondServiceError 把业务错误映射为 HTTP 状态：
// 租约冲突 409（带持有者与到期时间）、实体缺失 404、输入不合法 422、
// 其余视为基础设施故障 500.
func respondServiceError(c *gin.Context, err error) {
	if conflict, ok := service.AsConflict(err); ok {
		c.JSON(http.StatusConflict, types.LockConflictResponse{
			Message:   conflict.Error(),
			LockedBy:  conflict.Holder,
			ExpiresAt: conflict.ExpiresAt,
		})

		return
	}

	if service.IsNotFound(err) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

		return
	}

	if service.IsValidation(err) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})

		return
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		respondValidation(c, err)

		return
	}

	log.Logger().Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
