package middleware

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS は指定されたオリジンからのクロスオリジンリクエストを許可するGinミドルウェアを返す。
// フロントエンドからのAPIアクセスを許可するためにgatewayサービスで使用する。
// 許可リストに無いオリジンからのリクエストは403で中断される。
func CORS(allowedOrigins []string) gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{
		http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions,
	}
	cfg.AllowHeaders = []string{"Authorization", "Content-Type"}
	cfg.MaxAge = 24 * time.Hour

	if len(allowedOrigins) == 0 {
		// cors.Newは許可オリジンが空の設定を受け付けないため、全て拒否する関数を渡す
		cfg.AllowOriginFunc = func(string) bool { return false }
	} else {
		cfg.AllowOrigins = allowedOrigins
	}
	return cors.New(cfg)
}
