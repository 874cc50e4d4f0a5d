package repositories

import (
	"context"

	"gorm.io/gorm"

	"gallerytour/internal/models/db_models"
)

type EventRepositoryInterface interface {
	Append(ctx context.Context, event *db_models.Event) error
}

type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) EventRepositoryInterface {
	return &EventRepository{db: db}
}

func (r *EventRepository) Append(ctx context.Context, event *db_models.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}
