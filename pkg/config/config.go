// Package config はcleanenvを使ってサービスの設定値を読み込む。
//
// .envファイルが存在する場合は先に環境変数へ取り込む（既存の環境変数は上書きしない）。
// 環境変数CONFIG_PATHが設定されている場合はそのYAMLファイルを読み込み、
// 環境変数で上書きする。未設定の場合は環境変数のみを読み込む。
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	// EnvConfigPath は設定ファイルのパスを指定する環境変数名。
	EnvConfigPath = "CONFIG_PATH"
	// EnvDotenvPath は.envファイルのパスを指定する環境変数名。
	EnvDotenvPath = "ENV_FILE"
	// defaultDotenvPath は.envファイルの既定のパス。
	defaultDotenvPath = ".env"
)

// Load はcfgに設定値を読み込む。cfgは構造体へのポインタでなければならない。
// env-requiredの値が欠けている場合はエラーを返す。
func Load(cfg any) error {
	if err := loadDotenv(); err != nil {
		return err
	}
	if path := os.Getenv(EnvConfigPath); path != "" {
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return fmt.Errorf("設定ファイル %s の読み込みに失敗: %w", path, err)
		}
		return nil
	}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return fmt.Errorf("環境変数からの設定読み込みに失敗: %w", err)
	}
	return nil
}

// Usage はcfgが受け付ける環境変数の一覧を文字列で返す。
func Usage(cfg any) string {
	desc, err := cleanenv.GetDescription(cfg, nil)
	if err != nil {
		return ""
	}
	return desc
}

// loadDotenv は.envファイルが存在すれば環境変数に取り込む。
// ファイルが無い場合は何もしない。
func loadDotenv() error {
	path := os.Getenv(EnvDotenvPath)
	if path == "" {
		path = defaultDotenvPath
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf(".envファイル %s の確認に失敗: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf(".envファイル %s の読み込みに失敗: %w", path, err)
	}
	return nil
}
