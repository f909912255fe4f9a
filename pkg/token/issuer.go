package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/nao1215/tasksphere/pkg/trust"
)

// ErrIncompleteIdentity は発行対象の身元情報にIDまたはメールアドレスが無いことを表す。
var ErrIncompleteIdentity = errors.New("ユーザーIDとメールアドレスは必須です")

// Token は署名済みトークンとその有効期限。
type Token struct {
	// Value は署名済みのJWT文字列。
	Value string
	// ExpiresAt はトークンの有効期限。
	ExpiresAt time.Time
}

// Issuer はアクセストークンを発行する。
type Issuer struct {
	// cfg は署名設定。
	cfg Config
	// opts は時刻関数などのオプション。
	opts options
}

// NewIssuer は新しいIssuerを生成する。設定が不正な場合はエラーを返す。
func NewIssuer(cfg Config, opts ...Option) (*Issuer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("トークン発行者の初期化に失敗: %w", err)
	}
	return &Issuer{cfg: cfg, opts: newOptions(opts)}, nil
}

// Issue は身元情報を埋め込んだアクセストークンを発行する。
func (i *Issuer) Issue(id trust.Identity) (Token, error) {
	if id.UserID == "" || id.Email == "" {
		return Token{}, ErrIncompleteIdentity
	}

	now := i.opts.now()
	expiresAt := now.Add(i.cfg.ttl())
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.Email,
			Issuer:    i.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID:    id.UserID,
		Email:     id.Email,
		Roles:     id.Roles,
		TokenType: TypeAccess,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(i.cfg.Secret))
	if err != nil {
		return Token{}, fmt.Errorf("JWTトークンの署名に失敗: %w", err)
	}
	return Token{Value: signed, ExpiresAt: expiresAt}, nil
}
