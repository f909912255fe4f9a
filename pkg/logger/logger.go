// Package logger はzapベースの構造化ロガーを生成する。
package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config はロガーの設定。
type Config struct {
	// Level はログレベル（debug, info, warn, error）。未設定の場合はinfo。
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	// Encoding は出力形式（json または console）。未設定の場合はjson。
	Encoding string `yaml:"encoding" env:"LOG_ENCODING" env-default:"json"`
}

// New は設定に基づいてzap.Loggerを生成する。
// serviceには出力する全ログに付与するサービス名を指定する。
func New(cfg Config, service string) (*zap.Logger, error) {
	level := zap.NewAtomicLevel()
	lvl := strings.ToLower(cfg.Level)
	if lvl == "" {
		lvl = "info"
	}
	if err := level.UnmarshalText([]byte(lvl)); err != nil {
		return nil, fmt.Errorf("ログレベル %q が不正です: %w", cfg.Level, err)
	}

	encoding := strings.ToLower(cfg.Encoding)
	if encoding != "console" {
		encoding = "json"
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	zapCfg := zap.Config{
		Level:             level,
		DisableCaller:     true,
		DisableStacktrace: true,
		Encoding:          encoding,
		EncoderConfig:     encoderCfg,
		OutputPaths:       []string{"stdout"},
		ErrorOutputPaths:  []string{"stderr"},
	}

	log, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("ロガーの生成に失敗: %w", err)
	}
	return log.With(zap.String("service", service)), nil
}
