package feedbackfx

import (
	"go.uber.org/fx"

	"gallerytour/internal/services"
)

var Module = fx.Options(
	fx.Provide(services.NewFeedbackService),
)
