package task

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
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Server はtaskサービスのHTTPサーバー。
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

// NewServer は新しいtaskサーバーを生成する。
func NewServer(ctx context.Context, cfg Config, log *zap.Logger) (*Server, error) {
	db, err := sqlitedb.Open(ctx, cfg.DBPath)
	if err != nil {
		return nil, err
	}
	if err := migration.Run(ctx, db, migrationsFS, "migrations", log); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("スキーマ初期化に失敗: %w", err)
	}

	return &Server{
		router: service.NewEngine(&routes{store: NewStore(db), log: log}, log),
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
