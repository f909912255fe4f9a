// Package sqlitedb はmodernc.org/sqliteでデータベース接続を開く。
package sqlitedb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// MemoryPath はインメモリデータベースを表すパス。
const MemoryPath = ":memory:"

// Open はpathのSQLiteデータベースを開き、疎通を確認する。
// ファイルの場合はWALモードとビジータイムアウトを設定する。
// インメモリの場合は接続ごとに別のデータベースになるため接続数を1に固定する。
func Open(ctx context.Context, path string) (*sql.DB, error) {
	dsn := path
	if path != MemoryPath {
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		dsn = path + sep + "_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("データベース接続に失敗: %w", err)
	}
	if path == MemoryPath {
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("データベースの疎通確認に失敗: %w", err)
	}
	return db, nil
}
