package gorm

import "time"

// PlatformBooking is a booking reported by a channel platform. Once
// confirmed, its [CheckInDate, CheckOutDate) nights are a contiguous
// run of calendar days owned by this booking's id. Unique per
// (property, platform, external id) so re-importing is idempotent.
type PlatformBooking struct {
	ID                string    `gorm:"column:id;primaryKey;type:uuid" json:"id"`
	PropertyID        string    `gorm:"column:property_id;type:uuid;not null;uniqueIndex:idx_external_booking" json:"propertyId"`
	Platform          string    `gorm:"column:platform;type:varchar(50);not null;uniqueIndex:idx_external_booking" json:"platform"`
	ExternalBookingID string    `gorm:"column:external_booking_id;not null;uniqueIndex:idx_external_booking" json:"externalBookingId"`
	CheckInDate       time.Time `gorm:"column:check_in_date;not null" json:"checkInDate"`
	CheckOutDate      time.Time `gorm:"column:check_out_date;not null" json:"checkOutDate"`
	GuestRef          string    `gorm:"column:guest_ref" json:"guestRef"`
	TotalAmount       float64   `gorm:"column:total_amount;default:0" json:"totalAmount"`
	Status            string    `gorm:"column:status;type:varchar(20);not null" json:"status"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt         time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// TableName specifies the table name for GORM
func (PlatformBooking) TableName() string {
	return "platform_bookings"
}
