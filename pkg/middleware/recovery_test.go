package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TestRecovery はRecoveryミドルウェアを検証する。
func TestRecovery(t *testing.T) {
	t.Parallel()

	t.Run("パニックが発生した場合500が返ること", func(t *testing.T) {
		t.Parallel()

		router := gin.New()
		router.Use(Recovery(zap.NewNop()))
		router.GET("/panic", func(_ *gin.Context) {
			panic("claims: userId=secret-user")
		})

		req := httptest.NewRequest(http.MethodGet, "/panic", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusInternalServerError {
			t.Errorf("ステータスコード = %d, want %d", w.Code, http.StatusInternalServerError)
		}

		var body map[string]string
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("レスポンスボディのパースに失敗: %v", err)
		}
		if body["error"] != "Internal Server Error" {
			t.Errorf("error = %q, want %q", body["error"], "Internal Server Error")
		}
		if body["message"] != "An unexpected error occurred" {
			t.Errorf("message = %q, want %q", body["message"], "An unexpected error occurred")
		}
		// パニックの内容はクライアントに返さない
		if strings.Contains(w.Body.String(), "secret-user") {
			t.Errorf("レスポンスにパニックの内容が含まれている: %s", w.Body.String())
		}
	})

	t.Run("パニックが発生しない場合は正常にレスポンスが返ること", func(t *testing.T) {
		t.Parallel()

		router := gin.New()
		router.Use(Recovery(zap.NewNop()))
		router.GET("/ok", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		req := httptest.NewRequest(http.MethodGet, "/ok", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("ステータスコード = %d, want %d", w.Code, http.StatusOK)
		}

		var body map[string]string
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("レスポンスボディのパースに失敗: %v", err)
		}
		if body["status"] != "ok" {
			t.Errorf("status = %q, want %q", body["status"], "ok")
		}
	})

	t.Run("文字列以外のパニック値でも500が返ること", func(t *testing.T) {
		t.Parallel()

		router := gin.New()
		router.Use(Recovery(zap.NewNop()))
		router.GET("/panic-int", func(_ *gin.Context) {
			panic(42)
		})

		req := httptest.NewRequest(http.MethodGet, "/panic-int", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusInternalServerError {
			t.Errorf("ステータスコード = %d, want %d", w.Code, http.StatusInternalServerError)
		}
	})

	t.Run("RequestLoggerと組み合わせた場合トレースIDがレスポンスに付与されること", func(t *testing.T) {
		t.Parallel()

		router := gin.New()
		router.Use(RequestLogger(zap.NewNop()))
		router.Use(Recovery(zap.NewNop()))
		router.GET("/panic-traced", func(_ *gin.Context) {
			panic("トレース付きパニック")
		})

		req := httptest.NewRequest(http.MethodGet, "/panic-traced", nil)
		req.Header.Set("X-Request-ID", "trace-42")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusInternalServerError {
			t.Errorf("ステータスコード = %d, want %d", w.Code, http.StatusInternalServerError)
		}
		if got := w.Header().Get("X-Request-ID"); got != "trace-42" {
			t.Errorf("X-Request-ID = %q, want %q", got, "trace-42")
		}
	})

	t.Run("ErrAbortHandlerの場合は500を書き込まずに再びパニックすること", func(t *testing.T) {
		t.Parallel()

		router := gin.New()
		router.Use(Recovery(zap.NewNop()))
		router.GET("/abort", func(c *gin.Context) {
			c.Writer.WriteHeader(http.StatusOK)
			c.Writer.WriteHeaderNow()
			_, _ = c.Writer.WriteString("partial")
			panic(http.ErrAbortHandler)
		})

		req := httptest.NewRequest(http.MethodGet, "/abort", nil)
		w := httptest.NewRecorder()

		recovered := func() (r any) {
			defer func() { r = recover() }()
			router.ServeHTTP(w, req)
			return nil
		}()

		if recovered != http.ErrAbortHandler {
			t.Errorf("パニック値 = %v, want %v", recovered, http.ErrAbortHandler)
		}
		if w.Code != http.StatusOK {
			t.Errorf("ステータスコード = %d, want %d", w.Code, http.StatusOK)
		}
		if got := w.Body.String(); got != "partial" {
			t.Errorf("ボディ = %q, want %q", got, "partial")
		}
	})

	t.Run("パニック後もサーバーが次のリクエストを処理できること", func(t *testing.T) {
		t.Parallel()

		router := gin.New()
		router.Use(Recovery(zap.NewNop()))
		router.GET("/panic", func(_ *gin.Context) {
			panic("パニック発生")
		})
		router.GET("/ok", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "recovered"})
		})

		// パニックが発生するリクエスト
		req1 := httptest.NewRequest(http.MethodGet, "/panic", nil)
		w1 := httptest.NewRecorder()
		router.ServeHTTP(w1, req1)

		if w1.Code != http.StatusInternalServerError {
			t.Errorf("1回目のステータスコード = %d, want %d", w1.Code, http.StatusInternalServerError)
		}

		// パニック後の正常なリクエスト
		req2 := httptest.NewRequest(http.MethodGet, "/ok", nil)
		w2 := httptest.NewRecorder()
		router.ServeHTTP(w2, req2)

		if w2.Code != http.StatusOK {
			t.Errorf("2回目のステータスコード = %d, want %d", w2.Code, http.StatusOK)
		}
	})
}
