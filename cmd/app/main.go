package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"gallerytour/cmd/fx/analyticsfx"
	"gallerytour/cmd/fx/answerfx"
	"gallerytour/cmd/fx/configfx"
	"gallerytour/cmd/fx/contentfx"
	"gallerytour/cmd/fx/controllersfx"
	"gallerytour/cmd/fx/dbfx"
	"gallerytour/cmd/fx/feedbackfx"
	"gallerytour/cmd/fx/loggerfx"
	"gallerytour/cmd/fx/sessionfx"
	"gallerytour/internal/api/controllers"
	"gallerytour/internal/config"
	"gallerytour/internal/services"
	"gallerytour/pkg/logger"
	"gallerytour/pkg/middleware"
)

func main() {
	app := fx.New(
		configfx.Module,
		loggerfx.Module,
		dbfx.Module,
		sessionfx.Module,
		contentfx.Module,
		answerfx.Module,
		feedbackfx.Module,
		analyticsfx.Module,
		controllersfx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, engine *gin.Engine, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Printf("Starting HTTP server at :%s", cfg.Port)
				if err := engine.Run(":" + cfg.Port); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Println("Stopping HTTP server")
			return nil
		},
	})
}

func ProvideRouter(
	cfg *config.Config,
	appLogger *logger.Logger,
	sessions services.SessionServiceInterface,
	csrf services.CSRFServiceInterface,
	visitorController *controllers.VisitorController,
	adminController *controllers.AdminController,
	healthController *controllers.HealthController,
) *gin.Engine {
	if cfg.Env == "prod" || cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.SecureHeaders())
	r.LoadHTMLGlob("web/templates/*.html")

	RegisterRoutes(r, cfg, appLogger, sessions, csrf, visitorController, adminController, healthController)

	return r
}

func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	appLogger *logger.Logger,
	sessions services.SessionServiceInterface,
	csrf services.CSRFServiceInterface,
	visitorController *controllers.VisitorController,
	adminController *controllers.AdminController,
	healthController *controllers.HealthController,
) {
	r.GET("/health", healthController.Health)

	visitor := r.Group("/")
	visitor.Use(middleware.SessionMiddleware(sessions, appLogger))
	visitor.GET("", visitorController.Index)
	visitor.GET("/selfeval", visitorController.SelfevalForm)
	visitor.POST("/selfeval", middleware.RequireCSRF(csrf), visitorController.SubmitSelfeval)
	visitor.GET("/exhibit/:slug", visitorController.ExhibitDetail)
	visitor.POST("/exhibit/:slug/answer", middleware.RequireCSRF(csrf), visitorController.SubmitExhibitAnswers)
	visitor.GET("/exhibition-feedback", visitorController.ExhibitionFeedbackForm)
	visitor.POST("/exhibition-feedback", middleware.RequireCSRF(csrf), visitorController.SubmitExhibitionFeedback)
	visitor.GET("/thanks", visitorController.Thanks)
	visitor.POST("/event", visitorController.RecordEvent)

	admin := r.Group("/admin", middleware.AdminBasicAuth(cfg))
	admin.GET("/", adminController.Dashboard)
	admin.GET("/responses", adminController.Responses)
	admin.GET("/export.csv", adminController.ExportCSV)
}
