package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docs-italia-go/pkg/token"
)

func newAuthRouter(manager *token.JWTManager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin/ping", ServiceAuthMiddleware(manager), func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	return r
}

func doGet(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// TestServiceAuthMiddleware 验证管理端令牌校验的各个分支。
func TestServiceAuthMiddleware(t *testing.T) {
	manager := token.NewJWTManager("chiave-di-test", 1)
	r := newAuthRouter(manager)

	t.Run("合法的 ADMIN 令牌放行", func(t *testing.T) {
		tokenStr, err := manager.GenerateServiceToken("ops", token.RoleAdmin)
		require.NoError(t, err)
		w := doGet(r, "Bearer "+tokenStr)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("缺少授权头", func(t *testing.T) {
		w := doGet(r, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("非 Bearer 格式", func(t *testing.T) {
		w := doGet(r, "Basic abc")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("伪造令牌", func(t *testing.T) {
		other := token.NewJWTManager("altra-chiave", 1)
		tokenStr, err := other.GenerateServiceToken("ops", token.RoleAdmin)
		require.NoError(t, err)
		w := doGet(r, "Bearer "+tokenStr)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("角色不足", func(t *testing.T) {
		tokenStr, err := manager.GenerateServiceToken("builder", "SERVICE")
		require.NoError(t, err)
		w := doGet(r, "Bearer "+tokenStr)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
