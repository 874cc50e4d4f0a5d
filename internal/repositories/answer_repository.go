package repositories

import (
	"context"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gallerytour/internal/models/db_models"
)

type ResponseFilter struct {
	ExhibitID  *uint
	QuestionID *uint
}

// ResponseRow is one answer joined with its session and question, the
// shape the admin table and the CSV export both consume.
type ResponseRow struct {
	SessionUUID  string         `gorm:"column:session_uuid"`
	CreatedAt    time.Time      `gorm:"column:created_at"`
	ExhibitSlug  *string        `gorm:"column:exhibit_slug"`
	QuestionID   uint           `gorm:"column:question_id"`
	QuestionText string         `gorm:"column:question_text"`
	ValueText    *string        `gorm:"column:value_text"`
	ValueJSON    datatypes.JSON `gorm:"column:value_json"`
	SelfevalJSON datatypes.JSON `gorm:"column:selfeval_json"`
}

type AnswerRepositoryInterface interface {
	CountForQuestions(ctx context.Context, sessionID uint, questionIDs []uint) (int64, error)
	UpsertAll(ctx context.Context, answers []db_models.Answer) error
	ListForSession(ctx context.Context, sessionID uint) ([]db_models.Answer, error)
	ListResponses(ctx context.Context, filter ResponseFilter) ([]ResponseRow, error)
}

type AnswerRepository struct {
	db *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) AnswerRepositoryInterface {
	return &AnswerRepository{db: db}
}

func (r *AnswerRepository) CountForQuestions(ctx context.Context, sessionID uint, questionIDs []uint) (int64, error) {
	if len(questionIDs) == 0 {
		return 0, nil
	}
	var n int64
	err := r.db.WithContext(ctx).
		Model(&db_models.Answer{}).
		Where("session_id = ? AND question_id IN ?", sessionID, questionIDs).
		Count(&n).Error
	return n, err
}

// UpsertAll writes a submission atomically. The conflict target is the
// (session, question) unique index; the last writer wins.
func (r *AnswerRepository) UpsertAll(ctx context.Context, answers []db_models.Answer) error {
	if len(answers) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_id"}, {Name: "question_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"value_text", "value_json"}),
		}).Create(&answers).Error
	})
}

func (r *AnswerRepository) ListForSession(ctx context.Context, sessionID uint) ([]db_models.Answer, error) {
	var answers []db_models.Answer
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Find(&answers).Error
	return answers, err
}

func (r *AnswerRepository) ListResponses(ctx context.Context, filter ResponseFilter) ([]ResponseRow, error) {
	q := r.db.WithContext(ctx).
		Table("answers").
		Select(`sessions.uuid AS session_uuid,
			answers.created_at AS created_at,
			exhibits.slug AS exhibit_slug,
			questions.id AS question_id,
			questions.text AS question_text,
			answers.value_text AS value_text,
			answers.value_json AS value_json,
			sessions.selfeval_json AS selfeval_json`).
		Joins("JOIN sessions ON sessions.id = answers.session_id").
		Joins("JOIN questions ON questions.id = answers.question_id").
		Joins("LEFT JOIN exhibits ON exhibits.id = questions.exhibit_id").
		Order("answers.created_at DESC, answers.id DESC")

	if filter.ExhibitID != nil {
		q = q.Where("questions.exhibit_id = ?", *filter.ExhibitID)
	}
	if filter.QuestionID != nil {
		q = q.Where("answers.question_id = ?", *filter.QuestionID)
	}

	var rows []ResponseRow
	err := q.Scan(&rows).Error
	return rows, err
}
