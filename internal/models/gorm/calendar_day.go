package gorm

import "time"

// CalendarDay is one mutable cell of a property's availability/price
// ledger, unique per (property, date). Days are created lazily on first
// write and never deleted, only reset to the default available state.
// A day with OwnerBookingID set is owned: blocking and re-syncing must
// never clear ownership, only cancelling the owning booking may.
type CalendarDay struct {
	ID             uint       `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	PropertyID     string     `gorm:"column:property_id;type:uuid;not null;uniqueIndex:idx_property_date" json:"propertyId"`
	Date           time.Time  `gorm:"column:date;not null;uniqueIndex:idx_property_date" json:"date"`
	IsAvailable    bool       `gorm:"column:is_available;default:true" json:"isAvailable"`
	Price          *float64   `gorm:"column:price" json:"price,omitempty"`
	MinStay        int        `gorm:"column:min_stay;default:1" json:"minStay"`
	MaxStay        int        `gorm:"column:max_stay;default:0" json:"maxStay"`
	OwnerBookingID *string    `gorm:"column:owner_booking_id;type:uuid" json:"ownerBookingId,omitempty"`
	Notes          *string    `gorm:"column:notes" json:"notes,omitempty"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// TableName specifies the table name for GORM
func (CalendarDay) TableName() string {
	return "calendar_days"
}

// Owned reports whether the day is claimed by a booking.
func (d *CalendarDay) Owned() bool {
	return d.OwnerBookingID != nil && *d.OwnerBookingID != ""
}

// OwnedBy reports whether the day is claimed by the given booking.
func (d *CalendarDay) OwnedBy(bookingID string) bool {
	return d.OwnerBookingID != nil && *d.OwnerBookingID == bookingID
}
