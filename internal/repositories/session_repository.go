package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"gallerytour/internal/models/db_models"
	"gallerytour/pkg/utils"
)

type SessionRepositoryInterface interface {
	GetByUUID(ctx context.Context, token uuid.UUID) (*db_models.Session, error)
	Create(ctx context.Context, session *db_models.Session) error
	TouchActivity(ctx context.Context, id uint, at time.Time) error
	SetCompleted(ctx context.Context, id uint) error
	SetSelfeval(ctx context.Context, id uint, blob datatypes.JSON) error
	SetExhibitionFeedback(ctx context.Context, id uint, blob datatypes.JSON) error
}

type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) SessionRepositoryInterface {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) GetByUUID(ctx context.Context, token uuid.UUID) (*db_models.Session, error) {
	var session db_models.Session
	err := r.db.WithContext(ctx).Where("uuid = ?", token).First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *SessionRepository) Create(ctx context.Context, session *db_models.Session) error {
	return r.db.WithContext(ctx).Create(session).Error
}

// TouchActivity moves last_activity forward only; a stale writer can
// never rewind it.
func (r *SessionRepository) TouchActivity(ctx context.Context, id uint, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&db_models.Session{}).
		Where("id = ? AND last_activity < ?", id, at).
		Update("last_activity", at).Error
}

func (r *SessionRepository) SetCompleted(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&db_models.Session{}).
		Where("id = ?", id).
		Update("completed", true).Error
}

func (r *SessionRepository) SetSelfeval(ctx context.Context, id uint, blob datatypes.JSON) error {
	return r.db.WithContext(ctx).
		Model(&db_models.Session{}).
		Where("id = ?", id).
		Update("selfeval_json", blob).Error
}

func (r *SessionRepository) SetExhibitionFeedback(ctx context.Context, id uint, blob datatypes.JSON) error {
	return r.db.WithContext(ctx).
		Model(&db_models.Session{}).
		Where("id = ?", id).
		Update("exhibition_feedback_json", blob).Error
}
