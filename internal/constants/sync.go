package constants

// Sync operation types recorded in the sync_logs table
const (
	SyncTypeCalendar = "calendar"
	SyncTypePricing  = "pricing"
	SyncTypeBooking  = "booking"
)

// Sync outcome statuses
const (
	SyncStatusSuccess = "success"
	SyncStatusFailed  = "failed"
	SyncStatusPartial = "partial"
)

// Booking lifecycle statuses
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
)

// Pricing rule adjustment types
const (
	AdjustmentPercentage = "percentage"
	AdjustmentFixed      = "fixed"
)

// Pricing rule matcher types
const (
	MatcherDateRange  = "date_range"
	MatcherDaysOfWeek = "days_of_week"
)
