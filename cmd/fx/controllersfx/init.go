package controllersfx

import (
	"go.uber.org/fx"

	"gallerytour/internal/api/controllers"
)

var Module = fx.Options(
	fx.Provide(controllers.NewVisitorController),
	fx.Provide(controllers.NewAdminController),
	fx.Provide(controllers.NewHealthController),
)
