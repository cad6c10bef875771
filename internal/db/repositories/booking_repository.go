package repositories

import (
	"context"
	"errors"

	"staylink/channelsync/internal/constants"
	gormModels "staylink/channelsync/internal/models/gorm"

	"github.com/google/uuid"
	gormlib "gorm.io/gorm"
)

// BookingRepo handles platform booking persistence
type BookingRepo struct {
	db *gormlib.DB
}

func NewBookingRepo(db *gormlib.DB) *BookingRepo {
	return &BookingRepo{db: db}
}

func (r *BookingRepo) Create(ctx context.Context, b *gormModels.PlatformBooking) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *BookingRepo) GetByID(ctx context.Context, id string) (*gormModels.PlatformBooking, error) {
	var b gormModels.PlatformBooking
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&b).Error
	if err != nil {
		if errors.Is(err, gormlib.ErrRecordNotFound) {
			return nil, constants.NewNotFoundError("booking", id)
		}
		return nil, err
	}
	return &b, nil
}

// GetByExternalID looks up a previously imported channel booking. Nil
// with no error means the booking has not been seen before.
func (r *BookingRepo) GetByExternalID(ctx context.Context, propertyID, platform, externalID string) (*gormModels.PlatformBooking, error) {
	var b gormModels.PlatformBooking
	err := r.db.WithContext(ctx).
		Where("property_id = ? AND platform = ? AND external_booking_id = ?", propertyID, platform, externalID).
		First(&b).Error
	if err != nil {
		if errors.Is(err, gormlib.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

func (r *BookingRepo) UpdateStatus(ctx context.Context, id, status string) error {
	res := r.db.WithContext(ctx).
		Model(&gormModels.PlatformBooking{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return constants.NewNotFoundError("booking", id)
	}
	return nil
}

func (r *BookingRepo) ListByProperty(ctx context.Context, propertyID string) ([]gormModels.PlatformBooking, error) {
	var bookings []gormModels.PlatformBooking
	err := r.db.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Order("check_in_date ASC").
		Find(&bookings).Error
	return bookings, err
}
