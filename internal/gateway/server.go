package gateway

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nao1215/tasksphere/pkg/httpclient"
	"github.com/nao1215/tasksphere/pkg/middleware"
	"github.com/nao1215/tasksphere/pkg/service"
	"github.com/nao1215/tasksphere/pkg/token"
	"github.com/nao1215/tasksphere/pkg/trust"
)

const (
	// loginPath は認証を要求しない唯一のAPIパス。
	loginPath = "/api/users/login"
	// authLoginPath はログインの別名パス。/api配下ではないため認証フィルターを通らない。
	authLoginPath = "/auth/login"

	// upstreamUser はuserサービスの名前。
	upstreamUser = "user"
	// upstreamTask はtaskサービスの名前。
	upstreamTask = "task"
)

// Server はAPI GatewayサービスのHTTPサーバー。
type Server struct {
	// router はGinのHTTPルーター。
	router *gin.Engine
	// port はサーバーのリッスンポート。
	port string
	// log はロガー。
	log *zap.Logger
	// metrics はPrometheusメトリクス。
	metrics *Metrics
	// auth は認証フィルター。
	auth *Authenticator
	// upstreams はAPIパスの先頭セグメントごとの転送先。
	upstreams map[string]*upstream
	// health は下流サービスのヘルスチェッカー。
	health *healthChecker
}

// NewServer は新しいGatewayサーバーを生成する。
// JWTの設定が不正な場合（シークレット未設定を含む）は起動せずにエラーを返す。
func NewServer(cfg Config, log *zap.Logger) (*Server, error) {
	validator, err := token.NewValidator(cfg.JWT)
	if err != nil {
		return nil, fmt.Errorf("gatewayの起動に失敗: %w", err)
	}
	return newServer(cfg, validator, log)
}

// newServer は検証器を受け取ってサーバーを組み立てる。
func newServer(cfg Config, validator TokenValidator, log *zap.Logger) (*Server, error) {
	metrics := NewMetrics()
	transport := newTransport()

	users, err := newUpstream(upstreamUser, cfg.UserServiceURL, transport, metrics, log)
	if err != nil {
		return nil, err
	}
	tasks, err := newUpstream(upstreamTask, cfg.TaskServiceURL, transport, metrics, log)
	if err != nil {
		return nil, err
	}

	timeout := cfg.HealthTimeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}

	s := &Server{
		router:  gin.New(),
		port:    cfg.Port,
		log:     log,
		metrics: metrics,
		auth:    NewAuthenticator(validator, metrics, log, loginPath),
		upstreams: map[string]*upstream{
			"users": users,
			"tasks": tasks,
		},
		health: &healthChecker{
			clients: map[string]*httpclient.Client{
				upstreamUser: httpclient.New(cfg.UserServiceURL, httpclient.WithTimeout(timeout), httpclient.WithTransport(transport)),
				upstreamTask: httpclient.New(cfg.TaskServiceURL, httpclient.WithTimeout(timeout), httpclient.WithTransport(transport)),
			},
			timeout: timeout,
			log:     log,
		},
	}

	s.router.Use(middleware.RequestLogger(log))
	s.router.Use(middleware.Recovery(log))
	s.router.Use(middleware.CORS(cfg.FrontendURLs))
	s.router.Use(metrics.instrument())
	s.setupRoutes()

	return s, nil
}

// Handler はサーバーのHTTPハンドラを返す。
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run はHTTPサーバーを起動し、ctxがキャンセルされるまで処理を続ける。
func (s *Server) Run(ctx context.Context) error {
	return service.Serve(ctx, ":"+s.port, s.router, s.log)
}

// setupRoutes はAPIルーティングを設定する。
func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth())
	s.router.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	s.router.GET("/fallback", func(c *gin.Context) {
		c.JSON(http.StatusServiceUnavailable, serviceUnavailableBody)
	})

	// ログインの別名。信頼ヘッダーを取り除いてuserサービスへ転送する
	s.router.POST(authLoginPath, stripTrustHeaders(), s.upstreams["users"].handler())

	// 認証必須のAPI。ログインパスのみ認証フィルター内で除外する
	api := s.router.Group("/api")
	api.Use(s.auth.Middleware())
	api.Any("/*path", s.handleDispatch())
}

// handleDispatch はパスの先頭セグメントに対応する下流サービスへ転送するハンドラを返す。
func (s *Server) handleDispatch() gin.HandlerFunc {
	return func(c *gin.Context) {
		segment, _, _ := strings.Cut(strings.TrimPrefix(c.Param("path"), "/"), "/")
		u, ok := s.upstreams[segment]
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not Found"})
			return
		}
		u.handler()(c)
	}
}

// handleHealth は下流サービスの状態を集約して返すハンドラを返す。
// Gateway自身が応答できる限り200を返し、下流の状態はボディで示す。
func (s *Server) handleHealth() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, s.health.check(c.Request.Context()))
	}
}

// stripTrustHeaders はクライアントが送った信頼ヘッダーを取り除くミドルウェアを返す。
func stripTrustHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		trust.Strip(c.Request.Header)
		c.Next()
	}
}
