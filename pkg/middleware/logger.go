package middleware

import (
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// headerKeyRequestID はトレースIDを受け渡すHTTPヘッダーキー。
	headerKeyRequestID = "X-Request-ID"
	// contextKeyTraceID はGinコンテキストにトレースIDを格納するキー。
	contextKeyTraceID = "trace_id"
)

// requestIDPattern は受け入れるX-Request-IDの形式。これ以外の値は新しいIDに置き換える。
var requestIDPattern = regexp.MustCompile(`^[A-Za-z0-9-]{1,64}$`)

// RequestLogger はリクエストごとにトレースIDを割り当て、処理結果をzapで記録するGinミドルウェアを返す。
// ヘッダー値・トークン・クレームはログに出力しない。/health と /metrics は記録しない。
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(headerKeyRequestID)
		if !requestIDPattern.MatchString(traceID) {
			traceID = uuid.NewString()[:8]
		}
		c.Set(contextKeyTraceID, traceID)
		c.Header(headerKeyRequestID, traceID)

		path := c.Request.URL.Path
		if path == "/health" || path == "/metrics" {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("trace_id", traceID),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
		}
		for _, e := range c.Errors {
			fields = append(fields, zap.Error(e.Err))
		}

		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			log.Error("リクエスト処理でサーバーエラーが発生しました", fields...)
		case status >= http.StatusBadRequest:
			log.Warn("クライアントエラーを返しました", fields...)
		default:
			log.Info("リクエストを処理しました", fields...)
		}
	}
}

// TraceID はGinコンテキストからトレースIDを取得する。
// RequestLoggerが適用されていない場合は空文字列を返す。
func TraceID(c *gin.Context) string {
	return c.GetString(contextKeyTraceID)
}
