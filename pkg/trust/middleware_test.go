package trust

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newProtectedRouter はRequireミドルウェアで保護された"/p"を持つルーターを生成する。
func newProtectedRouter(captured *Identity, called *bool) *gin.Engine {
	router := gin.New()
	router.Use(Require(zap.NewNop()))
	router.GET("/p", func(c *gin.Context) {
		*called = true
		*captured, _ = IdentityFrom(c)
		c.Status(http.StatusOK)
	})
	return router
}

func TestRequire(t *testing.T) {
	t.Parallel()

	t.Run("信頼ヘッダーがあれば身元情報がコンテキストに設定されること", func(t *testing.T) {
		t.Parallel()

		var got Identity
		var called bool
		router := newProtectedRouter(&got, &called)

		req := httptest.NewRequest(http.MethodGet, "/p", nil)
		Inject(req.Header, Identity{UserID: "u-1", Email: "u1@example.com", Roles: "MEMBER"})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, called)
		assert.Equal(t, Identity{UserID: "u-1", Email: "u1@example.com", Roles: "MEMBER"}, got)
	})

	t.Run("Gatewayを経由しないリクエストは403で拒否されること", func(t *testing.T) {
		t.Parallel()

		var got Identity
		var called bool
		router := newProtectedRouter(&got, &called)

		req := httptest.NewRequest(http.MethodGet, "/p", nil)
		req.Header.Set(HeaderUserID, "u-2")
		req.Header.Set(HeaderUserEmail, "u2@example.com")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.False(t, called)

		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "Direct access forbidden", body["error"])
	})

	t.Run("ユーザー情報が欠けている場合は401で拒否されること", func(t *testing.T) {
		t.Parallel()

		var got Identity
		var called bool
		router := newProtectedRouter(&got, &called)

		req := httptest.NewRequest(http.MethodGet, "/p", nil)
		req.Header.Set(HeaderGatewayAuth, GatewayAuthValidated)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.False(t, called)

		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "Missing user context", body["error"])
	})

	t.Run("Authorizationヘッダーだけでは通過できないこと", func(t *testing.T) {
		t.Parallel()

		var got Identity
		var called bool
		router := newProtectedRouter(&got, &called)

		req := httptest.NewRequest(http.MethodGet, "/p", nil)
		req.Header.Set("Authorization", "Bearer some.jwt.value")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.False(t, called)
	})
}

func TestIdentityFrom(t *testing.T) {
	t.Parallel()

	t.Run("設定されていない場合falseを返すこと", func(t *testing.T) {
		t.Parallel()

		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		_, ok := IdentityFrom(c)
		assert.False(t, ok)
	})

	t.Run("Identity以外の型の場合falseを返すこと", func(t *testing.T) {
		t.Parallel()

		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Set(contextKeyIdentity, "not-identity")
		_, ok := IdentityFrom(c)
		assert.False(t, ok)
	})
}
