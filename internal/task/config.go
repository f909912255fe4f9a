package task

import "github.com/nao1215/tasksphere/pkg/logger"

// Config はtaskサービスの設定。
// トークンの検証はGatewayのみが行うため、JWTの設定は持たない。
type Config struct {
	// Port はリッスンポート。
	Port string `yaml:"port" env:"PORT" env-default:"8082"`
	// Log はロガーの設定。
	Log logger.Config `yaml:"log"`
	// DBPath はSQLiteデータベースのパス。
	DBPath string `yaml:"db_path" env:"DB_PATH" env-default:"/data/task.db"`
}
