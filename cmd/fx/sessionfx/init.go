package sessionfx

import (
	"go.uber.org/fx"

	"gallerytour/internal/config"
	"gallerytour/internal/repositories"
	"gallerytour/internal/services"
)

var Module = fx.Options(
	fx.Provide(repositories.NewSessionRepository),
	fx.Provide(provideSessionService),
	fx.Provide(provideCSRFService),
)

func provideSessionService(repo repositories.SessionRepositoryInterface, cfg *config.Config) services.SessionServiceInterface {
	return services.NewSessionService(repo, cfg.SessionTTL)
}

func provideCSRFService(cfg *config.Config) services.CSRFServiceInterface {
	return services.NewCSRFService(cfg.SecretKey)
}
