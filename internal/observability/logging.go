// Package observability 提供结构化日志与 prometheus 指标。
package observability

import (
	"context"
	"io"
	"log/slog"
	"os"
)

type ctxKey string

const (
	requestIDKey ctxKey = "request_id"
	nicknameKey  ctxKey = "nickname"
)

// Logger 全局日志，Init 之前为文本输出
var Logger = slog.New(&ctxHandler{Handler: slog.NewTextHandler(os.Stdout, nil)})

// Init 生产环境输出 JSON，其余输出文本
func Init(env string, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stdout
	}
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	var h slog.Handler
	if env == "production" {
		h = slog.NewJSONHandler(w, opts)
	} else {
		opts.Level = slog.LevelDebug
		h = slog.NewTextHandler(w, opts)
	}
	Logger = slog.New(&ctxHandler{Handler: h})
	slog.SetDefault(Logger)
	return Logger
}

// ctxHandler 自动带上 context 中的 request_id 和 nickname
type ctxHandler struct {
	slog.Handler
}

func (h *ctxHandler) Handle(ctx context.Context, r slog.Record) error {
	if id := RequestID(ctx); id != "" {
		r.AddAttrs(slog.String("request_id", id))
	}
	if nick, ok := ctx.Value(nicknameKey).(string); ok && nick != "" {
		r.AddAttrs(slog.String("nickname", nick))
	}
	return h.Handler.Handle(ctx, r)
}

func (h *ctxHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ctxHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *ctxHandler) WithGroup(name string) slog.Handler {
	return &ctxHandler{Handler: h.Handler.WithGroup(name)}
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

func WithNickname(ctx context.Context, nickname string) context.Context {
	return context.WithValue(ctx, nicknameKey, nickname)
}
