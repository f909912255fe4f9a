// taskサービスのエントリポイント。
// Gatewayが付与した信頼ヘッダーで利用者を識別し、タスクを管理する。
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nao1215/tasksphere/internal/task"
	"github.com/nao1215/tasksphere/pkg/config"
	"github.com/nao1215/tasksphere/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "task: %v\n", err)
		os.Exit(1)
	}
}

// run は設定の読み込みからサーバー停止までを行う。
func run() error {
	var cfg task.Config
	if err := config.Load(&cfg); err != nil {
		return fmt.Errorf("%w\n%s", err, config.Usage(&cfg))
	}

	log, err := logger.New(cfg.Log, "task")
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server, err := task.NewServer(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("taskサーバーの初期化に失敗: %w", err)
	}
	defer func() { _ = server.Close() }()

	return server.Run(ctx)
}
