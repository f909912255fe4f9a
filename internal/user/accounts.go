package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/nao1215/tasksphere/pkg/token"
	"github.com/nao1215/tasksphere/pkg/trust"
)

const (
	// RoleAdmin は管理者ロール。
	RoleAdmin = "ADMIN"
	// RoleUser は一般ユーザーロール。
	RoleUser = "USER"
)

// ErrInvalidCredentials はメールアドレスまたはパスワードが誤っていることを表す。
// 未登録のメールアドレスと誤ったパスワードは区別しない。
var ErrInvalidCredentials = errors.New("メールアドレスまたはパスワードが正しくありません")

// dummyPassword は未登録メールアドレスのログイン時に比較するハッシュの元の値。
const dummyPassword = "tasksphere-dummy-password"

// LoginResult はログイン成功時の結果。
type LoginResult struct {
	// Token は発行したアクセストークン。
	Token token.Token
	// User はログインしたユーザー。
	User User
}

// NewUser は新規登録するユーザーの入力値。
type NewUser struct {
	// Email はメールアドレス。
	Email string
	// Password は平文のパスワード。
	Password string
	// Name は表示名。
	Name string
	// Roles はロール。空の場合はUSER。
	Roles []string
}

// Accounts はログインとユーザー登録を扱う。
type Accounts struct {
	// store はユーザーの永続化先。
	store *Store
	// issuer はアクセストークンの発行者。
	issuer *token.Issuer
	// cost はbcryptのコスト。
	cost int
	// dummyHash は未登録メールアドレスとの比較に使うbcryptハッシュ。
	dummyHash []byte
	// log はロガー。
	log *zap.Logger
}

// AccountsOption はAccountsの生成オプション。
type AccountsOption func(*Accounts)

// WithBcryptCost はbcryptのコストを変更する。
func WithBcryptCost(cost int) AccountsOption {
	return func(a *Accounts) {
		a.cost = cost
	}
}

// NewAccounts は新しいAccountsを生成する。
func NewAccounts(store *Store, issuer *token.Issuer, log *zap.Logger, opts ...AccountsOption) (*Accounts, error) {
	a := &Accounts{
		store:  store,
		issuer: issuer,
		cost:   bcrypt.DefaultCost,
		log:    log,
	}
	for _, opt := range opts {
		opt(a)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dummyPassword), a.cost)
	if err != nil {
		return nil, fmt.Errorf("ダミーハッシュの生成に失敗: %w", err)
	}
	a.dummyHash = hash
	return a, nil
}

// Login はメールアドレスとパスワードを検証し、アクセストークンを発行する。
// 認証に失敗した場合はErrInvalidCredentialsを返す。
func (a *Accounts) Login(ctx context.Context, email, password string) (LoginResult, error) {
	u, err := a.store.GetByEmail(ctx, normalizeEmail(email))
	switch {
	case errors.Is(err, ErrUserNotFound):
		// 未登録の場合も比較を1回行い、応答時間を揃える
		_ = bcrypt.CompareHashAndPassword(a.dummyHash, []byte(password))
		return LoginResult{}, ErrInvalidCredentials
	case err != nil:
		return LoginResult{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return LoginResult{}, ErrInvalidCredentials
	}

	tok, err := a.issuer.Issue(trust.Identity{UserID: u.ID, Email: u.Email, Roles: u.Roles})
	if err != nil {
		return LoginResult{}, fmt.Errorf("アクセストークンの発行に失敗: %w", err)
	}
	a.log.Info("ログインに成功しました", zap.String("user_id", u.ID))
	return LoginResult{Token: tok, User: u}, nil
}

// Register はユーザーを登録する。メールアドレスが重複する場合はErrEmailTakenを返す。
func (a *Accounts) Register(ctx context.Context, in NewUser) (User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), a.cost)
	if err != nil {
		return User{}, fmt.Errorf("パスワードのハッシュ化に失敗: %w", err)
	}

	u := User{
		ID:           uuid.NewString(),
		Email:        normalizeEmail(in.Email),
		Name:         strings.TrimSpace(in.Name),
		PasswordHash: string(hash),
		Roles:        joinRoles(in.Roles),
	}
	if err := a.store.Create(ctx, u); err != nil {
		return User{}, err
	}
	a.log.Info("ユーザーを登録しました", zap.String("user_id", u.ID), zap.String("roles", u.Roles))
	return a.store.GetByID(ctx, u.ID)
}

// Profile はIDでユーザーを取得する。
func (a *Accounts) Profile(ctx context.Context, id string) (User, error) {
	return a.store.GetByID(ctx, id)
}

// Bootstrap は管理者が未登録の場合に作成する。既に存在する場合は何もしない。
func (a *Accounts) Bootstrap(ctx context.Context, admin BootstrapAdmin) error {
	if !admin.enabled() {
		return nil
	}
	_, err := a.Register(ctx, NewUser{
		Email:    admin.Email,
		Password: admin.Password,
		Name:     admin.Name,
		Roles:    []string{RoleAdmin, RoleUser},
	})
	if errors.Is(err, ErrEmailTaken) {
		a.log.Debug("管理者は登録済みのため作成をスキップしました")
		return nil
	}
	if err != nil {
		return fmt.Errorf("管理者の作成に失敗: %w", err)
	}
	return nil
}

// normalizeEmail はメールアドレスを比較用に正規化する。
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// joinRoles はロールを大文字に揃えて重複を除き、カンマ区切りにする。
func joinRoles(roles []string) string {
	seen := make(map[string]struct{}, len(roles))
	var out []string
	for _, r := range roles {
		r = strings.ToUpper(strings.TrimSpace(r))
		if r == "" {
			continue
		}
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	if len(out) == 0 {
		return RoleUser
	}
	return strings.Join(out, ",")
}
