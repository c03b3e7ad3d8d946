package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/whisperbox/whisperbox-backend/pkg/jwt"
)

const testSecret = "middleware-test-secret"

func newAuthRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw)
	r.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"account_id": GetAccountID(c),
			"email":      GetEmail(c),
			"has_token":  GetAccessToken(c) != "",
		})
	})
	return r
}

func get(r http.Handler, authHeader string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/whoami", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth(t *testing.T) {
	manager := jwt.NewManager(testSecret, "")
	token, err := manager.GenerateToken("acc-1", "a@example.com", time.Hour)
	require.NoError(t, err)
	r := newAuthRouter(JWTAuth(manager))

	w := get(r, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"account_id":"acc-1"`)
	assert.Contains(t, w.Body.String(), `"email":"a@example.com"`)

	assert.Equal(t, http.StatusUnauthorized, get(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "Token "+token).Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "Bearer garbage").Code)
}

func TestJWTAuth_Expired(t *testing.T) {
	manager := jwt.NewManager(testSecret, "")
	token, err := manager.GenerateToken("acc-1", "a@example.com", -time.Minute)
	require.NoError(t, err)

	w := get(newAuthRouter(JWTAuth(manager)), "Bearer "+token)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Token expired")
}

func TestOptionalAuth(t *testing.T) {
	manager := jwt.NewManager(testSecret, "")
	token, err := manager.GenerateToken("acc-1", "a@example.com", time.Hour)
	require.NoError(t, err)
	r := newAuthRouter(OptionalAuth(manager))

	w := get(r, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"account_id":"acc-1"`)

	for _, header := range []string{"", "Bearer not-a-jwt"} {
		w = get(r, header)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"account_id":""`)
		assert.Contains(t, w.Body.String(), `"has_token":false`)
	}
}

func TestRateLimit_NoRedisPassesThrough(t *testing.T) {
	r := newAuthRouter(RateLimit(nil, RateLimitConfig{Requests: 1, KeyPrefix: "test:"}))

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, get(r, "").Code)
	}
}

func TestSecurityHeadersAndSanitizer(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(SecurityHeaders(), InputSanitizer())
	r.GET("/search", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/search?search=hello", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/search?redirect=%3Cscript%3Ealert(1)", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInputSanitizer_SearchIsFreeText(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(InputSanitizer())
	r.GET("/search", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for _, q := range []string{"%3Cscript%3Ealert(1)", "eval(", "javascript:"} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/search?search="+q, nil)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNoContent, w.Code, q)
	}

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/search?search=ok&next=javascript:alert(1)", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestQueryTokenAuth(t *testing.T) {
	manager := jwt.NewManager(testSecret, "")
	token, err := manager.GenerateToken("acc-ws", "ws@example.com", time.Hour)
	require.NoError(t, err)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ws", QueryTokenAuth(manager), func(c *gin.Context) {
		c.String(http.StatusOK, GetAccountID(c))
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/ws?access_token="+token, nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "acc-ws", w.Body.String())

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/ws", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
