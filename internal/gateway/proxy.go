package gateway

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"slices"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// serviceUnavailableBody は転送先に到達できない場合のレスポンスボディ。
var serviceUnavailableBody = gin.H{
	"error":   "Service Unavailable",
	"message": "The requested service is temporarily unavailable",
}

// errInvalidUpstream は転送先URLが不正であることを表す。
var errInvalidUpstream = errors.New("転送先URLが不正です")

// forwardingHeaders はクライアントから受け取った値をそのまま転送するヘッダー。
// Rewrite方式のReverseProxyは転送前にこれらを削除する。
var forwardingHeaders = []string{"Forwarded", "X-Forwarded-For", "X-Forwarded-Host", "X-Forwarded-Proto"}

// newTransport は転送とヘルスチェックで共有するTransportを生成する。
// Accept-Encodingを自動で付与しないよう圧縮を無効にする。
func newTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.DisableCompression = true
	return t
}

// upstream は1つの下流サービスへの転送先。
type upstream struct {
	// name はメトリクスとログに使うサービス名。
	name string
	// target は転送先のベースURL。
	target *url.URL
	// proxy はリバースプロキシ。
	proxy *httputil.ReverseProxy
}

// newUpstream は転送先URLを解析し、リバースプロキシを生成する。
// 転送時に追加するヘッダーは認証フィルターが設定した信頼ヘッダーのみで、
// X-Forwarded-* は付与も削除もしない。
func newUpstream(name, rawURL string, transport http.RoundTripper, m *Metrics, log *zap.Logger) (*upstream, error) {
	target, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", errInvalidUpstream, name, err)
	}
	if target.Scheme == "" || target.Host == "" {
		return nil, fmt.Errorf("%w: %s: %q", errInvalidUpstream, name, rawURL)
	}

	u := &upstream{name: name, target: target}
	u.proxy = &httputil.ReverseProxy{
		Transport: transport,
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(target)
			for _, name := range forwardingHeaders {
				if v, ok := pr.In.Header[name]; ok {
					pr.Out.Header[name] = slices.Clone(v)
				}
			}
		},
		ModifyResponse: func(resp *http.Response) error {
			// トレースIDはGatewayが割り当てた値に揃える
			resp.Header.Del("X-Request-ID")
			return nil
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			m.observeUpstreamError(name)
			log.Error("下流サービスへの転送に失敗しました",
				zap.String("upstream", name),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Error(err),
			)
			writeServiceUnavailable(w)
		},
	}
	return u, nil
}

// handler は転送を行うGinハンドラを返す。
func (u *upstream) handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		u.proxy.ServeHTTP(c.Writer, c.Request)
	}
}

// writeServiceUnavailable はフォールバックの503レスポンスを書き込む。
func writeServiceUnavailable(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusServiceUnavailable)
	_, _ = w.Write([]byte(`{"error":"Service Unavailable","message":"The requested service is temporarily unavailable"}`))
}
