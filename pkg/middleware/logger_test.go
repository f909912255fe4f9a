package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// TestRequestLogger はRequestLoggerミドルウェアを検証する。
func TestRequestLogger(t *testing.T) {
	t.Parallel()

	t.Run("トレースIDが生成されレスポンスヘッダーとコンテキストに設定されること", func(t *testing.T) {
		t.Parallel()

		var ctxTraceID string
		router := gin.New()
		router.Use(RequestLogger(zap.NewNop()))
		router.GET("/test", func(c *gin.Context) {
			ctxTraceID = TraceID(c)
			c.Status(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		got := w.Header().Get("X-Request-ID")
		if len(got) != 8 {
			t.Errorf("X-Request-ID = %q, want 8文字", got)
		}
		if ctxTraceID != got {
			t.Errorf("TraceID() = %q, want %q", ctxTraceID, got)
		}
	})

	t.Run("受け取ったX-Request-IDをそのまま使うこと", func(t *testing.T) {
		t.Parallel()

		router := gin.New()
		router.Use(RequestLogger(zap.NewNop()))
		router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("X-Request-ID", "abc12345")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if got := w.Header().Get("X-Request-ID"); got != "abc12345" {
			t.Errorf("X-Request-ID = %q, want %q", got, "abc12345")
		}
	})

	t.Run("形式が不正なX-Request-IDは新しいIDに置き換えること", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name string
			id   string
		}{
			{name: "65文字", id: strings.Repeat("a", 65)},
			{name: "空白を含む", id: "abc 123"},
			{name: "記号を含む", id: "<script>"},
			{name: "改行を含む", id: "abc\nforged=1"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()

				core, logs := observer.New(zap.DebugLevel)
				router := gin.New()
				router.Use(RequestLogger(zap.New(core)))
				router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

				req := httptest.NewRequest(http.MethodGet, "/test", nil)
				req.Header.Set("X-Request-ID", tt.id)
				w := httptest.NewRecorder()
				router.ServeHTTP(w, req)

				got := w.Header().Get("X-Request-ID")
				if got == tt.id || len(got) != 8 {
					t.Errorf("X-Request-ID = %q, want 新しい8文字のID", got)
				}
				if id := logs.All()[0].ContextMap()["trace_id"]; id != got {
					t.Errorf("trace_id = %v, want %q", id, got)
				}
			})
		}
	})

	t.Run("64文字までのX-Request-IDは受け入れること", func(t *testing.T) {
		t.Parallel()

		id := strings.Repeat("a1-", 21) + "z"
		router := gin.New()
		router.Use(RequestLogger(zap.NewNop()))
		router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("X-Request-ID", id)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if got := w.Header().Get("X-Request-ID"); got != id {
			t.Errorf("X-Request-ID = %q, want %q", got, id)
		}
	})

	t.Run("ステータスに応じたレベルで記録しAuthorizationヘッダーを記録しないこと", func(t *testing.T) {
		t.Parallel()

		core, logs := observer.New(zap.DebugLevel)
		router := gin.New()
		router.Use(RequestLogger(zap.New(core)))
		router.GET("/unauthorized", func(c *gin.Context) { c.Status(http.StatusUnauthorized) })

		req := httptest.NewRequest(http.MethodGet, "/unauthorized", nil)
		req.Header.Set("Authorization", "Bearer secret.token.value")
		router.ServeHTTP(httptest.NewRecorder(), req)

		entries := logs.All()
		if len(entries) != 1 {
			t.Fatalf("ログ件数 = %d, want 1", len(entries))
		}
		if entries[0].Level != zap.WarnLevel {
			t.Errorf("ログレベル = %v, want %v", entries[0].Level, zap.WarnLevel)
		}
		for k, v := range entries[0].ContextMap() {
			if s, ok := v.(string); ok && strings.Contains(s, "secret.token.value") {
				t.Errorf("フィールド %s にトークンが含まれている", k)
			}
		}
	})

	t.Run("ヘルスチェックは記録しないこと", func(t *testing.T) {
		t.Parallel()

		core, logs := observer.New(zap.DebugLevel)
		router := gin.New()
		router.Use(RequestLogger(zap.New(core)))
		router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

		if logs.Len() != 0 {
			t.Errorf("ログ件数 = %d, want 0", logs.Len())
		}
	})
}
