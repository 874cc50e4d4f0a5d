package configfx

import (
	"go.uber.org/fx"

	"gallerytour/internal/config"
)

var Module = fx.Provide(config.Load)
