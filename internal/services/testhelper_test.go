package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"gallerytour/internal/infra"
	"gallerytour/internal/models/db_models"
	"gallerytour/pkg/logger"
)

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

func seedSession(t *testing.T, db *gorm.DB) *db_models.Session {
	t.Helper()
	session := &db_models.Session{UUID: uuid.New(), LastActivity: time.Now().UTC()}
	if err := db.Create(session).Error; err != nil {
		t.Fatalf("seed session: %v", err)
	}
	return session
}

func seedExhibit(t *testing.T, db *gorm.DB, slug string, orderIndex int, questions ...db_models.Question) *db_models.Exhibit {
	t.Helper()
	exhibit := &db_models.Exhibit{
		Slug:       slug,
		Title:      slug,
		TextMD:     "body",
		OrderIndex: orderIndex,
		Questions:  questions,
	}
	if err := db.Create(exhibit).Error; err != nil {
		t.Fatalf("seed exhibit %s: %v", slug, err)
	}
	return exhibit
}

func requiredTextQuestion(text string) db_models.Question {
	return db_models.Question{Text: text, Type: db_models.QuestionText, Required: true}
}

func mustCount(t *testing.T, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	if err := db.Model(model).Where(query, args...).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

var testCtx = context.Background()
