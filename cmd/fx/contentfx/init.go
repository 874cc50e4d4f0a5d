package contentfx

import (
	"context"

	"go.uber.org/fx"

	"gallerytour/internal/config"
	"gallerytour/internal/repositories"
	"gallerytour/internal/services"
	"gallerytour/pkg/logger"
)

var Module = fx.Options(
	fx.Provide(repositories.NewExhibitRepository),
	fx.Provide(provideContentService),
	fx.Invoke(syncContent),
)

func provideContentService(repo repositories.ExhibitRepositoryInterface, cfg *config.Config, log *logger.Logger) services.ContentServiceInterface {
	return services.NewContentService(repo, cfg.ContentDir, log)
}

// syncContent loads YAML exhibits and question manifests at startup.
// A failed load is non-fatal; the app still serves what the store has.
func syncContent(content services.ContentServiceInterface, log *logger.Logger) {
	if _, err := content.SyncFromDir(context.Background()); err != nil {
		log.Error("content sync failed", "error", err)
	}
}
