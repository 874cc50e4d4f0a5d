package answerfx

import (
	"go.uber.org/fx"

	"gallerytour/internal/repositories"
	"gallerytour/internal/services"
)

var Module = fx.Options(
	fx.Provide(repositories.NewAnswerRepository),
	fx.Provide(services.NewAnswerService),
)
