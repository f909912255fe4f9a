package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sampleConfig はテスト用の設定構造体。
type sampleConfig struct {
	// Port はリッスンポート。
	Port string `yaml:"port" env:"SAMPLE_PORT" env-default:"8080"`
	// Secret は必須の値。
	Secret string `yaml:"secret" env:"SAMPLE_SECRET" env-required:"true"`
	// Timeout は期間の値。
	Timeout time.Duration `yaml:"timeout" env:"SAMPLE_TIMEOUT" env-default:"3s"`
	// Origins はカンマ区切りの値。
	Origins []string `yaml:"origins" env:"SAMPLE_ORIGINS" env-separator:","`
}

// TestLoad はLoadを検証する。t.Setenvを使うため並列実行しない。
func TestLoad(t *testing.T) {
	t.Run("環境変数とデフォルト値から読み込めること", func(t *testing.T) {
		t.Setenv(EnvConfigPath, "")
		t.Setenv(EnvDotenvPath, filepath.Join(t.TempDir(), "none.env"))
		t.Setenv("SAMPLE_SECRET", "s3cr3t")
		t.Setenv("SAMPLE_ORIGINS", "http://a.example,http://b.example")

		var cfg sampleConfig
		require.NoError(t, Load(&cfg))
		assert.Equal(t, "8080", cfg.Port)
		assert.Equal(t, "s3cr3t", cfg.Secret)
		assert.Equal(t, 3*time.Second, cfg.Timeout)
		assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.Origins)
	})

	t.Run("必須の値が無い場合はエラーになること", func(t *testing.T) {
		t.Setenv(EnvConfigPath, "")
		t.Setenv("SAMPLE_SECRET", "")
		os.Unsetenv("SAMPLE_SECRET")

		var cfg sampleConfig
		assert.Error(t, Load(&cfg))
	})

	t.Run("CONFIG_PATHのYAMLを環境変数で上書きできること", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yml")
		require.NoError(t, os.WriteFile(path, []byte("port: \"9000\"\nsecret: from-file\n"), 0o600))
		t.Setenv(EnvConfigPath, path)
		t.Setenv("SAMPLE_PORT", "9100")
		t.Setenv("SAMPLE_SECRET", "")
		os.Unsetenv("SAMPLE_SECRET")

		var cfg sampleConfig
		require.NoError(t, Load(&cfg))
		assert.Equal(t, "9100", cfg.Port)
		assert.Equal(t, "from-file", cfg.Secret)
	})

	t.Run(".envファイルの値を読み込み既存の環境変数は上書きしないこと", func(t *testing.T) {
		dir := t.TempDir()
		envPath := filepath.Join(dir, "test.env")
		require.NoError(t, os.WriteFile(envPath, []byte("SAMPLE_SECRET=from-dotenv\nSAMPLE_PORT=7000\n"), 0o600))
		t.Setenv(EnvConfigPath, "")
		t.Setenv(EnvDotenvPath, envPath)
		t.Setenv("SAMPLE_PORT", "7100")
		t.Setenv("SAMPLE_SECRET", "")
		os.Unsetenv("SAMPLE_SECRET")
		// godotenvが設定した値をテスト後に消す
		t.Cleanup(func() { os.Unsetenv("SAMPLE_SECRET") })

		var cfg sampleConfig
		require.NoError(t, Load(&cfg))
		assert.Equal(t, "from-dotenv", cfg.Secret)
		assert.Equal(t, "7100", cfg.Port)
	})

	t.Run("存在しない設定ファイルはエラーになること", func(t *testing.T) {
		t.Setenv(EnvConfigPath, filepath.Join(t.TempDir(), "missing.yml"))

		var cfg sampleConfig
		assert.Error(t, Load(&cfg))
	})
}

// TestUsage は環境変数の一覧が得られることを検証する。
func TestUsage(t *testing.T) {
	t.Parallel()

	assert.Contains(t, Usage(&sampleConfig{}), "SAMPLE_SECRET")
}
