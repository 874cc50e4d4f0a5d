package repositories

import (
	"context"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"gallerytour/internal/models/db_models"
)

// ---------- Row helpers ----------

type SessionBlobRow struct {
	CreatedAt              time.Time      `gorm:"column:created_at"`
	Completed              bool           `gorm:"column:completed"`
	SelfevalJSON           datatypes.JSON `gorm:"column:selfeval_json"`
	ExhibitionFeedbackJSON datatypes.JSON `gorm:"column:exhibition_feedback_json"`
}

type ExhibitCountRow struct {
	ExhibitID    uint   `gorm:"column:exhibit_id"`
	Slug         string `gorm:"column:slug"`
	Title        string `gorm:"column:title"`
	SessionCount int64  `gorm:"column:session_count"`
}

type ViewEventRow struct {
	SessionID uint                `gorm:"column:session_id"`
	ExhibitID *uint               `gorm:"column:exhibit_id"`
	EventType db_models.EventType `gorm:"column:event_type"`
	Timestamp time.Time           `gorm:"column:timestamp"`
}

// AnalyticsRepository is read-only; every dashboard load recomputes
// from the live tables.
type AnalyticsRepositoryInterface interface {
	CountSessions(ctx context.Context) (int64, error)
	CountCompletedSessions(ctx context.Context) (int64, error)
	SessionBlobs(ctx context.Context) ([]SessionBlobRow, error)
	ExhibitAnswerCounts(ctx context.Context) ([]ExhibitCountRow, error)
	ViewEvents(ctx context.Context) ([]ViewEventRow, error)
}

type AnalyticsRepository struct {
	db *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) AnalyticsRepositoryInterface {
	return &AnalyticsRepository{db: db}
}

func (r *AnalyticsRepository) CountSessions(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&db_models.Session{}).Count(&n).Error
	return n, err
}

func (r *AnalyticsRepository) CountCompletedSessions(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&db_models.Session{}).
		Where("completed = ?", true).
		Count(&n).Error
	return n, err
}

func (r *AnalyticsRepository) SessionBlobs(ctx context.Context) ([]SessionBlobRow, error) {
	var rows []SessionBlobRow
	err := r.db.WithContext(ctx).
		Model(&db_models.Session{}).
		Select("created_at, completed, selfeval_json, exhibition_feedback_json").
		Order("created_at ASC").
		Scan(&rows).Error
	return rows, err
}

// ExhibitAnswerCounts counts distinct answering sessions per exhibit.
// The outer join keeps exhibits with zero answers in the result.
func (r *AnalyticsRepository) ExhibitAnswerCounts(ctx context.Context) ([]ExhibitCountRow, error) {
	var rows []ExhibitCountRow
	err := r.db.WithContext(ctx).
		Table("exhibits").
		Select(`exhibits.id AS exhibit_id,
			exhibits.slug AS slug,
			exhibits.title AS title,
			COUNT(DISTINCT answers.session_id) AS session_count`).
		Joins("LEFT JOIN questions ON questions.exhibit_id = exhibits.id").
		Joins("LEFT JOIN answers ON answers.question_id = questions.id").
		Group("exhibits.id, exhibits.slug, exhibits.title, exhibits.order_index").
		Order("exhibits.order_index ASC, exhibits.slug ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *AnalyticsRepository) ViewEvents(ctx context.Context) ([]ViewEventRow, error) {
	var rows []ViewEventRow
	err := r.db.WithContext(ctx).
		Model(&db_models.Event{}).
		Select("session_id, exhibit_id, event_type, timestamp").
		Where("event_type IN ?", []db_models.EventType{db_models.EventViewStart, db_models.EventViewEnd}).
		Order("timestamp ASC").
		Scan(&rows).Error
	return rows, err
}
