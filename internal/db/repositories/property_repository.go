package repositories

import (
	"context"
	"errors"

	"staylink/channelsync/internal/constants"
	gormModels "staylink/channelsync/internal/models/gorm"

	"github.com/google/uuid"
	gormlib "gorm.io/gorm"
)

// PropertyRepo handles property registry persistence
type PropertyRepo struct {
	db *gormlib.DB
}

func NewPropertyRepo(db *gormlib.DB) *PropertyRepo {
	return &PropertyRepo{db: db}
}

func (r *PropertyRepo) Create(ctx context.Context, p *gormModels.Property) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PropertyRepo) GetByID(ctx context.Context, id string) (*gormModels.Property, error) {
	var p gormModels.Property
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if err != nil {
		if errors.Is(err, gormlib.ErrRecordNotFound) {
			return nil, constants.NewNotFoundError("property", id)
		}
		return nil, err
	}
	return &p, nil
}

// Exists is the cheap existence check used by validation paths.
func (r *PropertyRepo) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&gormModels.Property{}).
		Where("id = ?", id).
		Count(&count).Error
	return count > 0, err
}
