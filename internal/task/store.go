package task

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// タスクの状態。
const (
	StatusTodo       = "TODO"
	StatusInProgress = "IN_PROGRESS"
	StatusDone       = "DONE"
)

// ErrTaskNotFound はタスクが存在しないことを表す。
var ErrTaskNotFound = errors.New("タスクが見つかりません")

// Task はタスク。
type Task struct {
	// ID はタスクの一意識別子。
	ID string
	// Title はタイトル。
	Title string
	// Description は説明。
	Description string
	// Status は状態。
	Status string
	// AssignedTo は担当ユーザーのID。
	AssignedTo string
	// CreatedBy は作成したユーザーのID。
	CreatedBy string
	// CreatedAt は作成日時。
	CreatedAt time.Time
}

// Store はtasksテーブルへのアクセスを提供する。
type Store struct {
	// db はSQLiteデータベース接続。
	db *sql.DB
}

// NewStore は新しいStoreを生成する。
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Create はタスクを登録する。
func (s *Store) Create(ctx context.Context, t Task) error {
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (id, title, description, status, assigned_to, created_by)
		VALUES (?, ?, ?, ?, ?, ?)
	`, t.ID, t.Title, t.Description, t.Status, t.AssignedTo, t.CreatedBy); err != nil {
		return fmt.Errorf("タスクの登録に失敗: %w", err)
	}
	return nil
}

// Get はIDでタスクを取得する。
func (s *Store) Get(ctx context.Context, id string) (Task, error) {
	var t Task
	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, description, status, assigned_to, created_by, created_at
		FROM tasks WHERE id = ?
	`, id).Scan(&t.ID, &t.Title, &t.Description, &t.Status, &t.AssignedTo, &t.CreatedBy, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Task{}, ErrTaskNotFound
	}
	if err != nil {
		return Task{}, fmt.Errorf("タスクの取得に失敗: %w", err)
	}
	return t, nil
}

// ListByAssignee は担当者のタスクを作成日時の新しい順に取得する。
func (s *Store) ListByAssignee(ctx context.Context, assignee string) ([]Task, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, status, assigned_to, created_by, created_at
		FROM tasks WHERE assigned_to = ?
		ORDER BY created_at DESC, rowid DESC
	`, assignee)
	if err != nil {
		return nil, fmt.Errorf("タスク一覧の取得に失敗: %w", err)
	}
	defer func() { _ = rows.Close() }()

	tasks := []Task{}
	for rows.Next() {
		var t Task
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Status, &t.AssignedTo, &t.CreatedBy, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("タスクの読み取りに失敗: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}
