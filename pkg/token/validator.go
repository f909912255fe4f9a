package token

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/nao1215/tasksphere/pkg/trust"
)

// ErrInvalidToken はトークンが無効であることを表す。
// 期限切れ・署名不正・形式不正などの原因はすべてこのエラーでラップされる。
var ErrInvalidToken = errors.New("トークンが無効です")

// Validator はアクセストークンを検証する。トークンの検証ロジックはこの型にのみ存在する。
type Validator struct {
	// secret はHMAC検証に使う共有シークレット。
	secret []byte
	// parser は署名方式・発行者・有効期限を検査するJWTパーサー。
	parser *jwt.Parser
}

// NewValidator は新しいValidatorを生成する。設定が不正な場合はエラーを返す。
// シークレット未設定のまま起動することを防ぐため、呼び出し側は起動時に失敗させること。
func NewValidator(cfg Config, opts ...Option) (*Validator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("トークン検証器の初期化に失敗: %w", err)
	}
	o := newOptions(opts)
	return &Validator{
		secret: []byte(cfg.Secret),
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(cfg.Issuer),
			jwt.WithExpirationRequired(),
			jwt.WithTimeFunc(o.now),
		),
	}, nil
}

// Validate はトークンを検証し、身元情報を返す。
// 署名・発行者・有効期限・トークン種別（ACCESS）・必須クレームのいずれかが
// 不正な場合はErrInvalidTokenをラップしたエラーを返す。
func (v *Validator) Validate(raw string) (trust.Identity, error) {
	claims := &Claims{}
	if _, err := v.parser.ParseWithClaims(raw, claims, func(_ *jwt.Token) (any, error) {
		return v.secret, nil
	}); err != nil {
		return trust.Identity{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if claims.TokenType != TypeAccess {
		return trust.Identity{}, fmt.Errorf("%w: token_type=%q", ErrInvalidToken, claims.TokenType)
	}

	id := claims.Identity()
	if id.UserID == "" || id.Email == "" {
		return trust.Identity{}, fmt.Errorf("%w: userIdまたはsubjectがありません", ErrInvalidToken)
	}
	return id, nil
}

// ValidateToken はトークンが有効な場合にtrueを返す。
func (v *Validator) ValidateToken(raw string) bool {
	_, err := v.Validate(raw)
	return err == nil
}
