package user

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nao1215/tasksphere/pkg/migration"
	"github.com/nao1215/tasksphere/pkg/service"
	"github.com/nao1215/tasksphere/pkg/sqlitedb"
	"github.com/nao1215/tasksphere/pkg/token"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Server はuserサービスのHTTPサーバー。
type Server struct {
	// router はGinのHTTPルーター。
	router *gin.Engine
	// port はサーバーのリッスンポート。
	port string
	// db はSQLiteデータベース接続。
	db *sql.DB
	// log はロガー。
	log *zap.Logger
}

// NewServer は新しいuserサーバーを生成する。
// データベースのマイグレーションと管理者の作成を行う。
// JWTの設定が不正な場合は起動せずにエラーを返す。
func NewServer(ctx context.Context, cfg Config, log *zap.Logger, opts ...AccountsOption) (*Server, error) {
	issuer, err := token.NewIssuer(cfg.JWT)
	if err != nil {
		return nil, fmt.Errorf("userサービスの起動に失敗: %w", err)
	}

	db, err := sqlitedb.Open(ctx, cfg.DBPath)
	if err != nil {
		return nil, err
	}
	if err := migration.Run(ctx, db, migrationsFS, "migrations", log); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("スキーマ初期化に失敗: %w", err)
	}

	accounts, err := NewAccounts(NewStore(db), issuer, log, opts...)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := accounts.Bootstrap(ctx, cfg.BootstrapAdmin); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Server{
		router: service.NewEngine(&routes{accounts: accounts, log: log}, log),
		port:   cfg.Port,
		db:     db,
		log:    log,
	}, nil
}

// Handler はサーバーのHTTPハンドラを返す。
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run はHTTPサーバーを起動し、ctxがキャンセルされるまで処理を続ける。
func (s *Server) Run(ctx context.Context) error {
	return service.Serve(ctx, ":"+s.port, s.router, s.log)
}

// Close はデータベース接続を閉じる。
func (s *Server) Close() error {
	return s.db.Close()
}
