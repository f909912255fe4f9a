// API Gatewayサービスのエントリポイント。
// アクセストークンの検証と下流サービスへのルーティングを担当する。
// 外部からアクセス可能な唯一のサービスであり、信頼境界となる。
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nao1215/tasksphere/internal/gateway"
	"github.com/nao1215/tasksphere/pkg/config"
	"github.com/nao1215/tasksphere/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "gateway: %v\n", err)
		os.Exit(1)
	}
}

// run は設定の読み込みからサーバー停止までを行う。
func run() error {
	var cfg gateway.Config
	if err := config.Load(&cfg); err != nil {
		return fmt.Errorf("%w\n%s", err, config.Usage(&cfg))
	}

	log, err := logger.New(cfg.Log, "gateway")
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	server, err := gateway.NewServer(cfg, log)
	if err != nil {
		return fmt.Errorf("Gatewayサーバーの初期化に失敗: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return server.Run(ctx)
}
