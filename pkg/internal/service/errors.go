// Package service 实现文件仓库的业务逻辑：租约锁、版本链、两阶段上传与访问代理.
package service

import (
	"errors"
	"fmt"
	"time"
)

// ConflictError 表示文件已被他人签出且租约未过期.
// 携带持有者与到期时间，HTTP 层映射为 409.
type ConflictError struct {
	FileID    string
	Holder    string
	ExpiresAt time.Time
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("file %s is locked by %s until %s", e.FileID, e.Holder, e.ExpiresAt.Format(time.RFC3339))
}

// NotFoundError 实体不存在，HTTP 层映射为 404.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.ID)
}

// ValidationError 输入不合法，HTTP 层映射为 422.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// AsConflict 解出 ConflictError.
func AsConflict(err error) (*ConflictError, bool) {
	var ce *ConflictError
	if errors.As(err, &ce) {
		return ce, true
	}

	return nil, false
}

// IsNotFound 判断是否为实体缺失错误.
func IsNotFound(err error) bool {
	var ne *NotFoundError

	return errors.As(err, &ne)
}

// IsValidation 判断是否为输入校验错误.
func IsValidation(err error) bool {
	var ve *ValidationError

	return errors.As(err, &ve)
}
