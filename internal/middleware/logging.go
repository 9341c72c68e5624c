package middleware

import (
	"log/slog"
	"time"

	"sports_community/internal/observability"
	"sports_community/internal/pkg"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

// RequestLogger 生成或透传请求 ID，并在请求结束后记一条访问日志
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		reqID := c.GetHeader(RequestIDHeader)
		if reqID == "" || len(reqID) > 64 {
			reqID = uuid.NewString()
		}
		c.Header(RequestIDHeader, reqID)
		c.Request = c.Request.WithContext(observability.WithRequestID(c.Request.Context(), reqID))

		c.Next()

		status := c.Writer.Status()
		level := slog.LevelInfo
		switch {
		case status >= 500:
			level = slog.LevelError
		case status >= 400:
			level = slog.LevelWarn
		}
		attrs := []slog.Attr{
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", status),
			slog.Duration("latency", time.Since(start)),
			slog.String("client_ip", c.ClientIP()),
		}
		if code := c.Writer.Header().Get(pkg.ErrorCodeHeader); code != "" {
			attrs = append(attrs, slog.String("error_code", code))
		}
		observability.Logger.LogAttrs(c.Request.Context(), level, "http request", attrs...)
	}
}
