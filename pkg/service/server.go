package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	// readHeaderTimeout はリクエストヘッダー読み込みのタイムアウト。
	readHeaderTimeout = 10 * time.Second
	// shutdownTimeout はグレースフルシャットダウンの待ち時間。
	shutdownTimeout = 15 * time.Second
)

// Serve はhandlerをaddrで公開し、ctxがキャンセルされるまで処理を続ける。
// キャンセル後は処理中のリクエストの完了を待ってから戻る。
func Serve(ctx context.Context, addr string, handler http.Handler, log *zap.Logger) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("リッスンに失敗: addr=%s: %w", addr, err)
	}
	return ServeListener(ctx, ln, handler, log)
}

// ServeListener は既存のリスナーでhandlerを公開する。テストで任意ポートを使う場合に利用する。
func ServeListener(ctx context.Context, ln net.Listener, handler http.Handler, log *zap.Logger) error {
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTPサーバーを起動しました", zap.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("HTTPサーバーが異常終了しました: %w", err)
	case <-ctx.Done():
	}

	log.Info("HTTPサーバーを停止します")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("グレースフルシャットダウンに失敗: %w", err)
	}
	return nil
}
