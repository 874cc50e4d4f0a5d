package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"gallerytour/internal/models/db_models"
	"gallerytour/pkg/utils"
)

type ExhibitRepositoryInterface interface {
	GetBySlug(ctx context.Context, slug string) (*db_models.Exhibit, error)
	ListOrdered(ctx context.Context) ([]db_models.Exhibit, error)
	CountExhibits(ctx context.Context) (int64, error)
	CreateWithChildren(ctx context.Context, exhibit *db_models.Exhibit) error
}

type ExhibitRepository struct {
	db *gorm.DB
}

func NewExhibitRepository(db *gorm.DB) ExhibitRepositoryInterface {
	return &ExhibitRepository{db: db}
}

func (r *ExhibitRepository) GetBySlug(ctx context.Context, slug string) (*db_models.Exhibit, error) {
	var exhibit db_models.Exhibit
	err := r.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		Preload("Questions", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		Where("slug = ?", slug).
		First(&exhibit).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrExhibitNotFound
	}
	if err != nil {
		return nil, err
	}
	return &exhibit, nil
}

// ListOrdered returns exhibits in traversal order; slug breaks
// order_index ties deterministically.
func (r *ExhibitRepository) ListOrdered(ctx context.Context) ([]db_models.Exhibit, error) {
	var exhibits []db_models.Exhibit
	err := r.db.WithContext(ctx).
		Order("order_index ASC, slug ASC").
		Find(&exhibits).Error
	return exhibits, err
}

func (r *ExhibitRepository) CountExhibits(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&db_models.Exhibit{}).Count(&n).Error
	return n, err
}

func (r *ExhibitRepository) CreateWithChildren(ctx context.Context, exhibit *db_models.Exhibit) error {
	return r.db.WithContext(ctx).Create(exhibit).Error
}
