package analyticsfx

import (
	"go.uber.org/fx"

	"gallerytour/internal/repositories"
	"gallerytour/internal/services"
)

var Module = fx.Options(
	fx.Provide(repositories.NewAnalyticsRepository),
	fx.Provide(repositories.NewEventRepository),
	fx.Provide(services.NewAnalyticsService),
	fx.Provide(services.NewExportService),
	fx.Provide(services.NewEventService),
)
