package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"sports_community/internal/observability"
	"sports_community/internal/pkg"

	"github.com/gin-gonic/gin"
)

const (
	bodySuccess = "success"
	bodyFailed  = "failed"
)

func ok(c *gin.Context) {
	c.String(http.StatusOK, bodySuccess)
}

// fail 所有业务失败统一 400 failed，错误码放在响应头
func fail(c *gin.Context, err error) {
	code := pkg.CodeOf(err)
	if code == pkg.CodeInternal {
		observability.Logger.ErrorContext(c.Request.Context(), "request failed",
			slog.String("path", c.FullPath()), slog.Any("error", err))
	}
	c.Header(pkg.ErrorCodeHeader, string(code))
	c.String(http.StatusBadRequest, bodyFailed)
}

func invalidParams(c *gin.Context) {
	fail(c, pkg.NewValidation("invalid params"))
}

func paramID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		invalidParams(c)
		return 0, false
	}
	return id, true
}

// numberID 客户端可能以字符串或数字传 ID
func numberID(n json.Number) (uint64, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(n.String()), 10, 64)
	return id, err == nil && id != 0
}
