package repositories

import (
	"context"

	"staylink/channelsync/internal/constants"
	"staylink/channelsync/internal/models/entities"
	gormModels "staylink/channelsync/internal/models/gorm"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	gormlib "gorm.io/gorm"
)

// SyncLogRepo appends to and reads the synchronization audit trail.
// Rows are immutable: there is no update or delete path.
type SyncLogRepo struct {
	db *gormlib.DB
}

func NewSyncLogRepo(db *gormlib.DB) *SyncLogRepo {
	return &SyncLogRepo{db: db}
}

func (r *SyncLogRepo) Append(ctx context.Context, entry *gormModels.SyncLog) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *SyncLogRepo) ListByIntegration(ctx context.Context, integrationID string, limit int) ([]gormModels.SyncLog, error) {
	if limit <= 0 {
		limit = 50
	}
	var logs []gormModels.SyncLog
	err := r.db.WithContext(ctx).
		Where("integration_id = ?", integrationID).
		Order("start_time DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}

func (r *SyncLogRepo) ListByProperty(ctx context.Context, propertyID string, limit int) ([]gormModels.SyncLog, error) {
	if limit <= 0 {
		limit = 50
	}
	var logs []gormModels.SyncLog
	err := r.db.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Order("start_time DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}

// SyncLogStatsRepo serves the aggregated reporting query over the raw
// sqlx pool; it bypasses the ORM for a plain GROUP BY.
type SyncLogStatsRepo struct {
	db *sqlx.DB
}

func NewSyncLogStatsRepo(db *sqlx.DB) *SyncLogStatsRepo {
	return &SyncLogStatsRepo{db}
}

func (r *SyncLogStatsRepo) StatsByProperty(ctx context.Context, propertyID string) ([]entities.SyncLogStat, error) {
	var stats []entities.SyncLogStat
	err := r.db.SelectContext(ctx, &stats, constants.GetSyncLogStats, propertyID)
	if err != nil {
		return nil, err
	}
	return stats, nil
}
