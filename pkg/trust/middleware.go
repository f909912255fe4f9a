package trust

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// contextKeyIdentity はGinコンテキストに身元情報を格納するためのキー。
const contextKeyIdentity = "trust_identity"

// Require は信頼ヘッダーを検証するGinミドルウェアを返す。
// Gatewayを経由していないリクエストは403、ユーザー情報が欠けている場合は401で中断する。
// 成功した場合、身元情報をコンテキストに設定する。トークンの署名検証は行わない。
func Require(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := FromHeaders(c.Request.Header)
		switch {
		case errors.Is(err, ErrNotFromGateway):
			log.Warn("Gatewayを経由しないリクエストを拒否しました",
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
			)
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":   "Direct access forbidden",
				"message": "Requests must go through API Gateway",
			})
			return
		case err != nil:
			log.Warn("ユーザー情報ヘッダーの欠けたリクエストを拒否しました",
				zap.String("path", c.Request.URL.Path),
			)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "Missing user context",
				"message": "Required user headers not found",
			})
			return
		}

		c.Set(contextKeyIdentity, id)
		c.Next()
	}
}

// IdentityFrom はGinコンテキストから身元情報を取得する。
// Requireミドルウェアが事前に適用されている必要がある。
func IdentityFrom(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(contextKeyIdentity)
	if !ok {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}
