// userサービスのエントリポイント。
// ログインによるアクセストークンの発行とユーザー管理を担当する。
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nao1215/tasksphere/internal/user"
	"github.com/nao1215/tasksphere/pkg/config"
	"github.com/nao1215/tasksphere/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "user: %v\n", err)
		os.Exit(1)
	}
}

// run は設定の読み込みからサーバー停止までを行う。
func run() error {
	var cfg user.Config
	if err := config.Load(&cfg); err != nil {
		return fmt.Errorf("%w\n%s", err, config.Usage(&cfg))
	}

	log, err := logger.New(cfg.Log, "user")
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server, err := user.NewServer(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("userサーバーの初期化に失敗: %w", err)
	}
	defer func() { _ = server.Close() }()

	return server.Run(ctx)
}
