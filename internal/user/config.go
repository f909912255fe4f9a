package user

import (
	"github.com/nao1215/tasksphere/pkg/logger"
	"github.com/nao1215/tasksphere/pkg/token"
)

// Config はuserサービスの設定。
type Config struct {
	// Port はリッスンポート。
	Port string `yaml:"port" env:"PORT" env-default:"8081"`
	// Log はロガーの設定。
	Log logger.Config `yaml:"log"`
	// JWT はアクセストークン発行の設定。JWT_SECRETは必須。
	JWT token.Config `yaml:"jwt"`
	// DBPath はSQLiteデータベースのパス。
	DBPath string `yaml:"db_path" env:"DB_PATH" env-default:"/data/user.db"`
	// BootstrapAdmin は起動時に作成する管理者。
	BootstrapAdmin BootstrapAdmin `yaml:"bootstrap_admin"`
}

// BootstrapAdmin は起動時に作成する管理者アカウントの設定。
// EmailとPasswordの両方が設定されている場合のみ作成する。
type BootstrapAdmin struct {
	// Email は管理者のメールアドレス。
	Email string `yaml:"email" env:"BOOTSTRAP_ADMIN_EMAIL"`
	// Password は管理者の初期パスワード。
	Password string `yaml:"password" env:"BOOTSTRAP_ADMIN_PASSWORD"`
	// Name は管理者の表示名。
	Name string `yaml:"name" env:"BOOTSTRAP_ADMIN_NAME" env-default:"Administrator"`
}

// enabled は管理者の作成が要求されているかを返す。
func (b BootstrapAdmin) enabled() bool {
	return b.Email != "" && b.Password != ""
}
