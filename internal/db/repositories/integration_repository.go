package repositories

import (
	"context"
	"errors"
	"time"

	"staylink/channelsync/internal/constants"
	gormModels "staylink/channelsync/internal/models/gorm"

	"github.com/google/uuid"
	gormlib "gorm.io/gorm"
)

// IntegrationRepo handles channel connection persistence
type IntegrationRepo struct {
	db *gormlib.DB
}

func NewIntegrationRepo(db *gormlib.DB) *IntegrationRepo {
	return &IntegrationRepo{db: db}
}

// Create inserts a new integration. The (property, platform) pair is
// unique; a second connection attempt for the same pair is rejected.
func (r *IntegrationRepo) Create(ctx context.Context, integ *gormModels.Integration) error {
	if integ.ID == "" {
		integ.ID = uuid.NewString()
	}

	var count int64
	err := r.db.WithContext(ctx).
		Model(&gormModels.Integration{}).
		Where("property_id = ? AND platform = ?", integ.PropertyID, integ.Platform).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return constants.ErrDuplicate
	}

	return r.db.WithContext(ctx).Create(integ).Error
}

func (r *IntegrationRepo) GetByID(ctx context.Context, id string) (*gormModels.Integration, error) {
	var integ gormModels.Integration
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&integ).Error
	if err != nil {
		if errors.Is(err, gormlib.ErrRecordNotFound) {
			return nil, constants.NewNotFoundError("integration", id)
		}
		return nil, err
	}
	return &integ, nil
}

func (r *IntegrationRepo) ListByProperty(ctx context.Context, propertyID string) ([]gormModels.Integration, error) {
	var integrations []gormModels.Integration
	err := r.db.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Order("created_at ASC").
		Find(&integrations).Error
	return integrations, err
}

// ListActive returns every enabled integration, the set a bulk sync
// sweep operates on. Disabled integrations are excluded here, not
// filtered later.
func (r *IntegrationRepo) ListActive(ctx context.Context) ([]gormModels.Integration, error) {
	var integrations []gormModels.Integration
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at ASC").
		Find(&integrations).Error
	return integrations, err
}

func (r *IntegrationRepo) Update(ctx context.Context, integ *gormModels.Integration) error {
	res := r.db.WithContext(ctx).
		Model(&gormModels.Integration{}).
		Where("id = ?", integ.ID).
		Updates(map[string]interface{}{
			"is_active":      integ.IsActive,
			"credential_ref": integ.CredentialRef,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return constants.NewNotFoundError("integration", integ.ID)
	}
	return nil
}

func (r *IntegrationRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&gormModels.Integration{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return constants.NewNotFoundError("integration", id)
	}
	return nil
}

// MarkSynced advances LastSyncDate after a successful sync. Failed
// syncs never reach this.
func (r *IntegrationRepo) MarkSynced(ctx context.Context, id string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&gormModels.Integration{}).
		Where("id = ?", id).
		Update("last_sync_date", at).Error
}
