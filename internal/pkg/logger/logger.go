package logger

import "go.uber.org/zap"

// New builds the process logger. Production config (JSON, info level)
// unless the environment is dev-like.
func New(appEnv string) (*zap.Logger, error) {
	if appEnv == "dev" || appEnv == "test" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
