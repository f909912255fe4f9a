package token

import (
	"errors"
	"time"
)

// minSecretLength はHS256の鍵として要求する最小バイト数（256ビット）。
const minSecretLength = 32

// DefaultTTL はアクセストークンのデフォルト有効期間。
const DefaultTTL = 5 * time.Hour

var (
	// ErrSecretMissing は署名用シークレットが設定されていないことを表す。
	ErrSecretMissing = errors.New("JWTシークレットが設定されていません")
	// ErrSecretTooShort は署名用シークレットが256ビット未満であることを表す。
	ErrSecretTooShort = errors.New("JWTシークレットは32バイト以上である必要があります")
	// ErrIssuerMissing は発行者文字列が設定されていないことを表す。
	ErrIssuerMissing = errors.New("JWT発行者が設定されていません")
)

// Config はトークンの署名と検証に使う設定値。
// プロセス起動時に一度だけ生成し、値として各コンポーネントへ渡す。
type Config struct {
	// Secret はHMAC署名に使う共有シークレット。
	Secret string `yaml:"secret" env:"JWT_SECRET" env-required:"true"`
	// Issuer はissクレームに設定・要求する発行者文字列。
	Issuer string `yaml:"issuer" env:"JWT_ISSUER" env-default:"tasksphere-api"`
	// TTL はアクセストークンの有効期間。0以下の場合はDefaultTTLを使う。
	TTL time.Duration `yaml:"ttl" env:"JWT_TTL" env-default:"5h"`
}

// Validate は設定値が署名・検証に使えるかを確認する。
func (c Config) Validate() error {
	if c.Secret == "" {
		return ErrSecretMissing
	}
	if len(c.Secret) < minSecretLength {
		return ErrSecretTooShort
	}
	if c.Issuer == "" {
		return ErrIssuerMissing
	}
	return nil
}

// ttl は有効期間を返す。未設定の場合はDefaultTTL。
func (c Config) ttl() time.Duration {
	if c.TTL <= 0 {
		return DefaultTTL
	}
	return c.TTL
}

// Option はIssuerとValidatorの振る舞いを変更する関数。
type Option func(*options)

// options はIssuerとValidatorに共通のオプション。
type options struct {
	// now は現在時刻を返す関数。
	now func() time.Time
}

// WithClock は現在時刻の取得関数を差し替える。テストで使用する。
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// newOptions はデフォルト値にoptsを適用したオプションを返す。
func newOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
