package loggerfx

import (
	"go.uber.org/fx"

	"gallerytour/internal/config"
	"gallerytour/pkg/logger"
)

var Module = fx.Provide(provideLogger)

func provideLogger(cfg *config.Config) (*logger.Logger, error) {
	return logger.New(cfg.Env)
}
