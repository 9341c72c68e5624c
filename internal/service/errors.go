package service

import (
	"errors"

	"sports_community/internal/pkg"

	"gorm.io/gorm"
)

// translate 把仓储层错误映射为 AppError，已是 AppError 的原样返回
func translate(err error, what string) error {
	if err == nil {
		return nil
	}
	var appErr *pkg.AppError
	if errors.As(err, &appErr) {
		return err
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return pkg.NewNotFound(what + " not found")
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return pkg.NewConflict(what + " already exists")
	default:
		return pkg.NewInternal(err)
	}
}
