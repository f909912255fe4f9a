package gateway

import (
	"time"

	"github.com/nao1215/tasksphere/pkg/logger"
	"github.com/nao1215/tasksphere/pkg/token"
)

// Config はGatewayサービスの設定。
type Config struct {
	// Port はリッスンポート。
	Port string `yaml:"port" env:"PORT" env-default:"8080"`
	// Log はロガーの設定。
	Log logger.Config `yaml:"log"`
	// JWT はアクセストークン検証の設定。JWT_SECRETは必須。
	JWT token.Config `yaml:"jwt"`
	// UserServiceURL はuserサービスのベースURL。
	UserServiceURL string `yaml:"user_service_url" env:"USER_SERVICE_URL" env-default:"http://localhost:8081"`
	// TaskServiceURL はtaskサービスのベースURL。
	TaskServiceURL string `yaml:"task_service_url" env:"TASK_SERVICE_URL" env-default:"http://localhost:8082"`
	// FrontendURLs はCORSで許可するオリジン。カンマ区切りで複数指定できる。
	FrontendURLs []string `yaml:"frontend_urls" env:"FRONTEND_URL" env-separator:"," env-default:"http://localhost:3000"`
	// HealthTimeout は下流サービスのヘルスチェックのタイムアウト。
	HealthTimeout time.Duration `yaml:"health_timeout" env:"HEALTH_TIMEOUT" env-default:"3s"`
}
