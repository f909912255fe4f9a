package gateway

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/nao1215/tasksphere/pkg/httpclient"
)

// ヘルスチェックの状態値。
const (
	healthOK       = "ok"
	healthDegraded = "degraded"
	healthDown     = "down"
)

// healthReport はGatewayの /health レスポンス。
type healthReport struct {
	// Status は全体の状態。下流が1つでも落ちていればdegraded。
	Status string `json:"status"`
	// Service はサービス名。
	Service string `json:"service"`
	// Upstreams は下流サービスごとの状態。
	Upstreams map[string]string `json:"upstreams"`
}

// healthChecker は下流サービスの /health を並行して確認する。
type healthChecker struct {
	// clients はサービス名ごとのHTTPクライアント。
	clients map[string]*httpclient.Client
	// timeout は全体のタイムアウト。
	timeout time.Duration
	// log はロガー。
	log *zap.Logger
}

// check は全下流サービスのヘルスチェックを実行する。
// 個々の失敗は全体を中断させず、該当サービスをdownとして報告する。
func (h *healthChecker) check(ctx context.Context) healthReport {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	report := healthReport{
		Status:    healthOK,
		Service:   "gateway",
		Upstreams: make(map[string]string, len(h.clients)),
	}

	var mu sync.Mutex
	var g errgroup.Group
	for name, client := range h.clients {
		g.Go(func() error {
			status := healthOK
			if err := client.Ping(ctx, "/health"); err != nil {
				status = healthDown
				h.log.Warn("下流サービスのヘルスチェックに失敗しました",
					zap.String("upstream", name),
					zap.String("url", client.BaseURL()),
					zap.Error(err),
				)
			}
			mu.Lock()
			defer mu.Unlock()
			report.Upstreams[name] = status
			if status != healthOK {
				report.Status = healthDegraded
			}
			return nil
		})
	}
	_ = g.Wait()
	return report
}
