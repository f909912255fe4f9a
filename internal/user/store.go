package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrUserNotFound はユーザーが存在しないことを表す。
	ErrUserNotFound = errors.New("ユーザーが見つかりません")
	// ErrEmailTaken はメールアドレスが既に登録されていることを表す。
	ErrEmailTaken = errors.New("メールアドレスは既に登録されています")
)

// User は登録済みユーザー。
type User struct {
	// ID はユーザーの一意識別子。
	ID string
	// Email はメールアドレス。
	Email string
	// Name は表示名。
	Name string
	// PasswordHash はbcryptハッシュ。
	PasswordHash string
	// Roles はカンマ区切りのロール。
	Roles string
	// CreatedAt は作成日時。
	CreatedAt time.Time
}

// Store はusersテーブルへのアクセスを提供する。
type Store struct {
	// db はSQLiteデータベース接続。
	db *sql.DB
}

// NewStore は新しいStoreを生成する。
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Create はユーザーを登録する。メールアドレスが重複する場合はErrEmailTakenを返す。
func (s *Store) Create(ctx context.Context, u User) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, name, password_hash, roles)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(email) DO NOTHING
	`, u.ID, u.Email, u.Name, u.PasswordHash, u.Roles)
	if err != nil {
		return fmt.Errorf("ユーザーの登録に失敗: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("登録件数の取得に失敗: %w", err)
	}
	if n == 0 {
		return ErrEmailTaken
	}
	return nil
}

// GetByEmail はメールアドレスでユーザーを取得する。
func (s *Store) GetByEmail(ctx context.Context, email string) (User, error) {
	return s.getOne(ctx, "SELECT id, email, name, password_hash, roles, created_at FROM users WHERE email = ?", email)
}

// GetByID はIDでユーザーを取得する。
func (s *Store) GetByID(ctx context.Context, id string) (User, error) {
	return s.getOne(ctx, "SELECT id, email, name, password_hash, roles, created_at FROM users WHERE id = ?", id)
}

// getOne は1行を取得してUserに変換する。
func (s *Store) getOne(ctx context.Context, query string, arg any) (User, error) {
	var u User
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Roles, &u.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("ユーザーの取得に失敗: %w", err)
	}
	return u, nil
}
