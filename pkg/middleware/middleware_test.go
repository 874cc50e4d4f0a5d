package middleware

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"gallerytour/internal/infra"
	"gallerytour/internal/repositories"
	"gallerytour/internal/services"
	"gallerytour/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := infra.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("dev")
	if err != nil {
		t.Fatalf("build logger: %v", err)
	}
	return log
}

func newSessionService(t *testing.T, db *gorm.DB) services.SessionServiceInterface {
	t.Helper()
	return services.NewSessionService(repositories.NewSessionRepository(db), time.Hour)
}

func sessionRouter(t *testing.T, db *gorm.DB, handler gin.HandlerFunc) *gin.Engine {
	t.Helper()
	engine := gin.New()
	engine.Use(SessionMiddleware(newSessionService(t, db), newTestLogger(t)))
	engine.GET("/", handler)
	engine.POST("/", handler)
	return engine
}

func okHandler(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}
