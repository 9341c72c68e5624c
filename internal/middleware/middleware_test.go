package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sports_community/internal/pkg"
	"sports_community/internal/service"
	"sports_community/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T) (*gin.Engine, *service.SessionService) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rdb, _ := testutil.NewRedis(t)
	sessions := service.NewSessionService(rdb, time.Minute, time.Hour)

	r := gin.New()
	r.Use(RequestLogger(), Metrics(), Session(sessions, "SESSIONID"))
	r.GET("/open", func(c *gin.Context) {
		c.String(http.StatusOK, "nick=%s uid=%d", CurrentNickname(c), CurrentUserID(c))
	})
	r.GET("/private", RequireLogin(), func(c *gin.Context) {
		c.String(http.StatusOK, CurrentSession(c))
	})
	return r, sessions
}

func TestSessionMiddleware(t *testing.T) {
	r, sessions := newEngine(t)
	sess, err := sessions.Establish(context.Background(), 7, "alice", false)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/open", nil))
	assert.Equal(t, "nick= uid=0", w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	req.AddCookie(&http.Cookie{Name: "SESSIONID", Value: sess.ID})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "nick=alice uid=7", w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/private", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "failed", w.Body.String())
	assert.Equal(t, string(pkg.CodeUnauthorized), w.Header().Get(pkg.ErrorCodeHeader))

	req = httptest.NewRequest(http.MethodGet, "/private", nil)
	req.AddCookie(&http.Cookie{Name: "SESSIONID", Value: sess.ID})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, sess.ID, w.Body.String())

	// 未知会话不报错，只是没有身份
	req = httptest.NewRequest(http.MethodGet, "/open", nil)
	req.AddCookie(&http.Cookie{Name: "SESSIONID", Value: "forged"})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "nick= uid=0", w.Body.String())
}

func TestRequestID(t *testing.T) {
	r, _ := newEngine(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/open", nil))
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)

	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}
