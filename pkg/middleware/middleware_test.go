package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-wander/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(handlers...)
	r.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, GetClientID(c).String())
	})
	return r
}

func TestClientIdentity_IssuesCookie(t *testing.T) {
	tokens := auth.NewClientTokens("secret", time.Hour)
	r := newRouter(ClientIdentity(tokens, zap.NewNop()))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))

	require.Equal(t, http.StatusOK, w.Code)
	id, err := uuid.Parse(w.Body.String())
	require.NoError(t, err)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, ClientCookie, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	got, err := tokens.Validate(cookies[0].Value)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestClientIdentity_ReusesValidCookie(t *testing.T) {
	tokens := auth.NewClientTokens("secret", time.Hour)
	id := uuid.New()
	signed, err := tokens.Issue(id)
	require.NoError(t, err)

	r := newRouter(ClientIdentity(tokens, zap.NewNop()))
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: ClientCookie, Value: signed})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, id.String(), w.Body.String())
	assert.Empty(t, w.Result().Cookies())
}

func TestClientIdentity_ReplacesTamperedCookie(t *testing.T) {
	tokens := auth.NewClientTokens("secret", time.Hour)
	r := newRouter(ClientIdentity(tokens, zap.NewNop()))

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: ClientCookie, Value: "tampered"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, w.Result().Cookies(), 1)
}

func TestRateLimitMiddleware(t *testing.T) {
	rl := NewRateLimiter(zap.NewNop(), 0.001, 2, time.Minute)
	r := newRouter(RateLimitMiddleware(rl))

	codes := make([]int, 0, 3)
	for range 3 {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimiter_BucketsArePerClient(t *testing.T) {
	rl := NewRateLimiter(zap.NewNop(), 0.001, 1, time.Minute)

	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))
	assert.True(t, rl.Allow("b"))
}

func TestCORSMiddleware_Preflight(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware())
	r.OPTIONS("/x", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/x", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestSecurityMiddleware(t *testing.T) {
	r := newRouter(SecurityMiddleware(), LoggerMiddleware(zap.NewNop()))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
}
