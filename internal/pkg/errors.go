package pkg

import (
	"errors"
	"fmt"
)

type ErrorCode string

// ErrorCodeHeader 失败响应体固定为 "failed"，具体错误码放在该响应头
const ErrorCodeHeader = "X-Error-Code"

const (
	CodeNotFound     ErrorCode = "NOT_FOUND"
	CodeForbidden    ErrorCode = "FORBIDDEN"
	CodeConflict     ErrorCode = "CONFLICT"
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"
	CodeValidation   ErrorCode = "VALIDATION_ERROR"
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
)

// AppError 业务层统一错误，Code 会透出到 X-Error-Code 响应头
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

func NewNotFound(msg string) *AppError {
	return &AppError{Code: CodeNotFound, Message: msg}
}

func NewForbidden(msg string) *AppError {
	return &AppError{Code: CodeForbidden, Message: msg}
}

func NewConflict(msg string) *AppError {
	return &AppError{Code: CodeConflict, Message: msg}
}

func NewUnauthorized(msg string) *AppError {
	return &AppError{Code: CodeUnauthorized, Message: msg}
}

func NewValidation(msg string) *AppError {
	return &AppError{Code: CodeValidation, Message: msg}
}

func NewInternal(err error) *AppError {
	return &AppError{Code: CodeInternal, Message: "internal error", Err: err}
}

// CodeOf 非 AppError 一律视为内部错误
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

func IsCode(err error, code ErrorCode) bool {
	return err != nil && CodeOf(err) == code
}
