package service

import (
	"errors"
	"fmt"

	"mindhaven/internal/repository"
	"mindhaven/pkg/db"
)

// 业务错误类别，handler 通过 errors.Is 映射状态码
var (
	ErrValidation   = errors.New("validation error")
	ErrNotFound     = errors.New("not found")
	ErrPermission   = errors.New("permission denied")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
)

// Error 带类别的业务错误，Message 可直接返回给客户端
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func validationError(msg string) error   { return &Error{Kind: ErrValidation, Message: msg} }
func notFoundError(msg string) error     { return &Error{Kind: ErrNotFound, Message: msg} }
func permissionError(msg string) error   { return &Error{Kind: ErrPermission, Message: msg} }
func conflictError(msg string) error     { return &Error{Kind: ErrConflict, Message: msg} }
func unauthorizedError(msg string) error { return &Error{Kind: ErrUnauthorized, Message: msg} }

// translateWrite 将唯一约束冲突转换为 ConflictError，其余错误附加上下文
func translateWrite(err error, conflictMsg, op string) error {
	if err == nil {
		return nil
	}
	if db.IsDuplicateKey(err) {
		return conflictError(conflictMsg)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// translateLookup 将仓储的未找到转换为 NotFoundError
func translateLookup(err error, notFoundMsg, op string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return notFoundError(notFoundMsg)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// requireUsers 校验用户存在，任一不存在返回 NotFoundError
func requireUsers(store *repository.Store, ids ...uint) error {
	for _, id := range ids {
		ok, err := store.Users.Exists(id)
		if err != nil {
			return fmt.Errorf("查询用户失败: %w", err)
		}
		if !ok {
			return notFoundError("User not found")
		}
	}
	return nil
}
