package services

import (
	"context"
	"fmt"
	"time"

	"staylink/channelsync/internal/constants"
	"staylink/channelsync/internal/db/repositories"
	"staylink/channelsync/internal/logging"
	"staylink/channelsync/internal/models/dtos"
	gormModels "staylink/channelsync/internal/models/gorm"

	"github.com/google/uuid"
)

// BookingService imports channel-reported bookings and detects
// conflicts. Double-booking prevention rests entirely on the calendar
// store's atomic claim: two confirmed bookings for the same property
// can never overlap because the second claim fails, first writer wins.
type BookingService struct {
	bookingRepo  *repositories.BookingRepo
	propertyRepo *repositories.PropertyRepo
	calendar     *CalendarStore
}

func NewBookingService(bookingRepo *repositories.BookingRepo, propertyRepo *repositories.PropertyRepo, calendar *CalendarStore) *BookingService {
	return &BookingService{
		bookingRepo:  bookingRepo,
		propertyRepo: propertyRepo,
		calendar:     calendar,
	}
}

// ImportBookingParams carries one channel-reported booking into the importer.
type ImportBookingParams struct {
	PropertyID        string
	Platform          string
	ExternalBookingID string
	CheckInDate       time.Time
	CheckOutDate      time.Time
	GuestRef          string
	TotalAmount       float64
}

func (p *ImportBookingParams) validate() error {
	if p.PropertyID == "" {
		return constants.NewValidationError("property id is required")
	}
	if !constants.IsKnownPlatform(p.Platform) {
		return constants.NewValidationError("unknown platform %q", p.Platform)
	}
	if p.ExternalBookingID == "" {
		return constants.NewValidationError("external booking id is required")
	}
	if !NormalizeDate(p.CheckOutDate).After(NormalizeDate(p.CheckInDate)) {
		return constants.NewValidationError("check-out %s must be after check-in %s",
			p.CheckOutDate.Format(DateFormat), p.CheckInDate.Format(DateFormat))
	}
	return nil
}

// ImportBooking records the booking in pending state, then attempts the
// atomic claim of its [check-in, check-out) nights. A successful claim
// confirms the booking; a conflicting one cancels it and surfaces the
// conflicting dates in the result. Re-importing an external booking id
// already on file returns the stored booking unchanged.
func (s *BookingService) ImportBooking(ctx context.Context, params ImportBookingParams) (*dtos.ImportResult, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	exists, err := s.propertyRepo.Exists(ctx, params.PropertyID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, constants.NewNotFoundError("property", params.PropertyID)
	}

	// Idempotent import: the channel re-reporting a booking we already
	// hold is the normal full-refresh case, not a new claim attempt.
	existing, err := s.bookingRepo.GetByExternalID(ctx, params.PropertyID, params.Platform, params.ExternalBookingID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &dtos.ImportResult{
			Booking: existing,
			Claim:   dtos.ClaimResult{OK: existing.Status == constants.BookingStatusConfirmed},
		}, nil
	}

	booking := &gormModels.PlatformBooking{
		ID:                uuid.NewString(),
		PropertyID:        params.PropertyID,
		Platform:          params.Platform,
		ExternalBookingID: params.ExternalBookingID,
		CheckInDate:       NormalizeDate(params.CheckInDate),
		CheckOutDate:      NormalizeDate(params.CheckOutDate),
		GuestRef:          params.GuestRef,
		TotalAmount:       params.TotalAmount,
		Status:            constants.BookingStatusPending,
	}
	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("store booking: %w", err)
	}

	claim, err := s.calendar.ClaimRange(ctx, booking.PropertyID, booking.CheckInDate, booking.CheckOutDate, booking.ID)
	if err != nil {
		return nil, err
	}

	status := constants.BookingStatusConfirmed
	if !claim.OK {
		status = constants.BookingStatusCancelled
		logging.Warn("Booking rejected with date conflicts",
			"property_id", booking.PropertyID,
			"platform", booking.Platform,
			"external_booking_id", booking.ExternalBookingID,
			"conflicts", claim.Conflicts,
		)
	}
	if err := s.bookingRepo.UpdateStatus(ctx, booking.ID, status); err != nil {
		return nil, err
	}
	booking.Status = status

	return &dtos.ImportResult{Booking: booking, Claim: claim}, nil
}

// CancelBooking releases the booking's nights and marks it cancelled.
// The release happens first so the calendar never shows a cancelled
// booking as still owning its dates. Cancelling an already cancelled
// booking is a no-op.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID string) (*gormModels.PlatformBooking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.Status == constants.BookingStatusCancelled {
		return booking, nil
	}

	if booking.Status == constants.BookingStatusConfirmed {
		if err := s.calendar.ReleaseRange(ctx, booking.PropertyID, booking.CheckInDate, booking.CheckOutDate, booking.ID); err != nil {
			return nil, err
		}
	}

	if err := s.bookingRepo.UpdateStatus(ctx, booking.ID, constants.BookingStatusCancelled); err != nil {
		return nil, err
	}
	booking.Status = constants.BookingStatusCancelled

	return booking, nil
}

// FindByExternalID looks up a previously imported channel booking.
// Nil with no error means it has not been seen before.
func (s *BookingService) FindByExternalID(ctx context.Context, propertyID, platform, externalID string) (*gormModels.PlatformBooking, error) {
	return s.bookingRepo.GetByExternalID(ctx, propertyID, platform, externalID)
}

// ListBookings returns a property's bookings ordered by check-in.
func (s *BookingService) ListBookings(ctx context.Context, propertyID string) ([]gormModels.PlatformBooking, error) {
	return s.bookingRepo.ListByProperty(ctx, propertyID)
}
