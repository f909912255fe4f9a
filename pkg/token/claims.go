package token

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/nao1215/tasksphere/pkg/trust"
)

const (
	// TypeAccess はAPIアクセスに使えるトークン種別。
	TypeAccess = "ACCESS"
	// TypeRefresh はリフレッシュ用のトークン種別。APIアクセスには使えない。
	TypeRefresh = "REFRESH"
)

// Claims はアクセストークンのクレーム（ペイロード）。
// subjectにはメールアドレスを設定する。
type Claims struct {
	jwt.RegisteredClaims
	// UserID はユーザーの一意識別子。
	UserID string `json:"userId"`
	// Email はユーザーのメールアドレス。subjectと同じ値を持つ。
	Email string `json:"email,omitempty"`
	// Roles はロール文字列。複数の場合はカンマ区切り。
	Roles string `json:"roles"`
	// TokenType はトークン種別。アクセストークンは"ACCESS"。
	TokenType string `json:"token_type"`
}

// Identity はクレームから身元情報を取り出す。メールアドレスはsubjectから取得する。
func (c *Claims) Identity() trust.Identity {
	return trust.Identity{
		UserID: c.UserID,
		Email:  c.Subject,
		Roles:  c.Roles,
	}
}
