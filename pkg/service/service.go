package service

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nao1215/tasksphere/pkg/middleware"
	"github.com/nao1215/tasksphere/pkg/trust"
)

// Service は下流サービスが実装するルート定義。
type Service interface {
	// Name はサービス名を返す。ログとヘルスチェックに使用する。
	Name() string
	// RegisterPublicRoutes は信頼ヘッダー無しで到達できるルートを登録する。
	RegisterPublicRoutes(r gin.IRoutes)
	// RegisterProtectedRoutes は信頼ヘッダーの検証後にのみ到達できるルートを登録する。
	RegisterProtectedRoutes(r gin.IRoutes)
}

// NewEngine はServiceのルートを登録したGinエンジンを生成する。
// 共通ミドルウェア（リクエストログ、リカバリ）と /health を登録し、
// 保護ルートはtrust.Requireを適用したグループにのみ登録する。
func NewEngine(svc Service, log *zap.Logger) *gin.Engine {
	log = log.With(zap.String("component", svc.Name()))

	engine := gin.New()
	engine.Use(middleware.RequestLogger(log))
	engine.Use(middleware.Recovery(log))

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": svc.Name()})
	})

	svc.RegisterPublicRoutes(engine)

	protected := engine.Group("")
	protected.Use(trust.Require(log))
	svc.RegisterProtectedRoutes(protected)

	return engine
}
