package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"staylink/channelsync/internal/constants"
	"staylink/channelsync/internal/models/dtos"
	gormModels "staylink/channelsync/internal/models/gorm"

	"gorm.io/gorm"
)

// DateFormat is the wire format for calendar dates.
const DateFormat = "2006-01-02"

// CalendarStore is the authoritative per-property availability/price
// ledger. All range operations take half-open [start, end) ranges of
// UTC-midnight dates.
//
// Every mutation acquires the property's exclusive lock and runs in one
// DB transaction, so two integrations syncing the same property can
// never interleave claims (both observing "unclaimed" before either
// commits). Different properties proceed in parallel.
type CalendarStore struct {
	db *gorm.DB

	mu        sync.Mutex
	propLocks map[string]*sync.Mutex
}

func NewCalendarStore(db *gorm.DB) *CalendarStore {
	return &CalendarStore{
		db:        db,
		propLocks: make(map[string]*sync.Mutex),
	}
}

func (s *CalendarStore) lockProperty(propertyID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	if l, exists := s.propLocks[propertyID]; exists {
		return l
	}
	l := &sync.Mutex{}
	s.propLocks[propertyID] = l
	return l
}

// ensureProperty rejects operations against property ids we do not
// hold. Without the check a mistyped id would quietly accumulate
// orphan calendar rows.
func (s *CalendarStore) ensureProperty(ctx context.Context, propertyID string) error {
	if propertyID == "" {
		return constants.NewValidationError("property id is required")
	}
	var count int64
	err := s.db.WithContext(ctx).
		Model(&gormModels.Property{}).
		Where("id = ?", propertyID).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("check property: %w", err)
	}
	if count == 0 {
		return constants.NewNotFoundError("property", propertyID)
	}
	return nil
}

// NormalizeDate truncates t to UTC midnight.
func NormalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func validateRange(start, end time.Time) (time.Time, time.Time, error) {
	start = NormalizeDate(start)
	end = NormalizeDate(end)
	if !end.After(start) {
		return start, end, constants.NewValidationError(
			"end %s must be after start %s", end.Format(DateFormat), start.Format(DateFormat))
	}
	return start, end, nil
}

// eachDay calls fn for every date in [start, end).
func eachDay(start, end time.Time, fn func(date time.Time)) {
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		fn(d)
	}
}

// loadDays returns the existing rows for [start, end) keyed by date.
// Days never written are absent: they are implicitly available and
// unpriced.
func loadDays(tx *gorm.DB, propertyID string, start, end time.Time) (map[time.Time]*gormModels.CalendarDay, error) {
	var rows []gormModels.CalendarDay
	err := tx.
		Where("property_id = ? AND date >= ? AND date < ?", propertyID, start, end).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	days := make(map[time.Time]*gormModels.CalendarDay, len(rows))
	for i := range rows {
		days[NormalizeDate(rows[i].Date)] = &rows[i]
	}
	return days, nil
}

// BlockRange marks each unowned day in [start, end) unavailable. Days
// owned by a booking are never overwritten: they come back in
// SkippedOwned with their ownership untouched.
func (s *CalendarStore) BlockRange(ctx context.Context, propertyID string, start, end time.Time, reason string) (*dtos.BlockResult, error) {
	start, end, err := validateRange(start, end)
	if err != nil {
		return nil, err
	}
	if err := s.ensureProperty(ctx, propertyID); err != nil {
		return nil, err
	}

	lock := s.lockProperty(propertyID)
	lock.Lock()
	defer lock.Unlock()

	result := &dtos.BlockResult{Blocked: []string{}, SkippedOwned: []string{}}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		days, err := loadDays(tx, propertyID, start, end)
		if err != nil {
			return err
		}

		var txErr error
		eachDay(start, end, func(date time.Time) {
			if txErr != nil {
				return
			}
			day, exists := days[date]
			if exists && day.Owned() {
				result.SkippedOwned = append(result.SkippedOwned, date.Format(DateFormat))
				return
			}
			if !exists {
				day = &gormModels.CalendarDay{PropertyID: propertyID, Date: date}
			}
			day.IsAvailable = false
			if reason != "" {
				day.Notes = &reason
			}
			if txErr = tx.Save(day).Error; txErr == nil {
				result.Blocked = append(result.Blocked, date.Format(DateFormat))
			}
		})
		return txErr
	})
	if err != nil {
		return nil, fmt.Errorf("block range: %w", err)
	}

	return result, nil
}

// UnblockRange clears IsAvailable=false only on days with no owning
// booking. Owned days are left untouched; a blind unblock must never
// erase booking ownership.
func (s *CalendarStore) UnblockRange(ctx context.Context, propertyID string, start, end time.Time) error {
	start, end, err := validateRange(start, end)
	if err != nil {
		return err
	}
	if err := s.ensureProperty(ctx, propertyID); err != nil {
		return err
	}

	lock := s.lockProperty(propertyID)
	lock.Lock()
	defer lock.Unlock()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.
			Model(&gormModels.CalendarDay{}).
			Where("property_id = ? AND date >= ? AND date < ? AND owner_booking_id IS NULL", propertyID, start, end).
			Updates(map[string]interface{}{"is_available": true, "notes": nil}).Error
	})
	if err != nil {
		return fmt.Errorf("unblock range: %w", err)
	}
	return nil
}

// SetPrice upserts one day's price without touching availability or
// ownership.
func (s *CalendarStore) SetPrice(ctx context.Context, propertyID string, date time.Time, price float64) error {
	if price < 0 {
		return constants.NewValidationError("price must not be negative, got %.2f", price)
	}
	if err := s.ensureProperty(ctx, propertyID); err != nil {
		return err
	}
	date = NormalizeDate(date)

	lock := s.lockProperty(propertyID)
	lock.Lock()
	defer lock.Unlock()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		days, err := loadDays(tx, propertyID, date, date.AddDate(0, 0, 1))
		if err != nil {
			return err
		}
		day, exists := days[date]
		if !exists {
			day = &gormModels.CalendarDay{PropertyID: propertyID, Date: date, IsAvailable: true}
		}
		day.Price = &price
		return tx.Save(day).Error
	})
	if err != nil {
		return fmt.Errorf("set price: %w", err)
	}
	return nil
}

// ClaimRange atomically assigns ownership of every day in [start, end)
// to bookingID. The claim succeeds only if no day is owned by a
// different booking or blocked for another reason; on any conflict the
// whole claim is rejected and nothing is written. A failed claim is
// the expected double-booking signal, not an error.
func (s *CalendarStore) ClaimRange(ctx context.Context, propertyID string, start, end time.Time, bookingID string) (dtos.ClaimResult, error) {
	start, end, err := validateRange(start, end)
	if err != nil {
		return dtos.ClaimResult{}, err
	}
	if bookingID == "" {
		return dtos.ClaimResult{}, constants.NewValidationError("booking id is required for a claim")
	}
	if err := s.ensureProperty(ctx, propertyID); err != nil {
		return dtos.ClaimResult{}, err
	}

	lock := s.lockProperty(propertyID)
	lock.Lock()
	defer lock.Unlock()

	result := dtos.ClaimResult{OK: true}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		days, err := loadDays(tx, propertyID, start, end)
		if err != nil {
			return err
		}

		eachDay(start, end, func(date time.Time) {
			day, exists := days[date]
			if !exists {
				return
			}
			// Re-claiming a day already owned by this booking is fine.
			if day.Owned() && !day.OwnedBy(bookingID) {
				result.Conflicts = append(result.Conflicts, date.Format(DateFormat))
				return
			}
			if !day.Owned() && !day.IsAvailable {
				result.Conflicts = append(result.Conflicts, date.Format(DateFormat))
			}
		})

		if len(result.Conflicts) > 0 {
			result.OK = false
			return nil // no writes on conflict
		}

		var txErr error
		eachDay(start, end, func(date time.Time) {
			if txErr != nil {
				return
			}
			day, exists := days[date]
			if !exists {
				day = &gormModels.CalendarDay{PropertyID: propertyID, Date: date}
			}
			day.OwnerBookingID = &bookingID
			day.IsAvailable = false
			txErr = tx.Save(day).Error
		})
		return txErr
	})
	if err != nil {
		return dtos.ClaimResult{}, fmt.Errorf("claim range: %w", err)
	}

	return result, nil
}

// ReleaseRange clears ownership for the days in [start, end) owned by
// the given booking, resetting them to the default available state.
// Days owned by other bookings are untouched.
func (s *CalendarStore) ReleaseRange(ctx context.Context, propertyID string, start, end time.Time, bookingID string) error {
	start, end, err := validateRange(start, end)
	if err != nil {
		return err
	}
	if err := s.ensureProperty(ctx, propertyID); err != nil {
		return err
	}

	lock := s.lockProperty(propertyID)
	lock.Lock()
	defer lock.Unlock()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.
			Model(&gormModels.CalendarDay{}).
			Where("property_id = ? AND date >= ? AND date < ? AND owner_booking_id = ?", propertyID, start, end, bookingID).
			Updates(map[string]interface{}{"owner_booking_id": nil, "is_available": true}).Error
	})
	if err != nil {
		return fmt.Errorf("release range: %w", err)
	}
	return nil
}

// Query returns the written days in [start, end) ordered by date.
// Absent days are default available/unpriced and carry no row.
func (s *CalendarStore) Query(ctx context.Context, propertyID string, start, end time.Time) ([]gormModels.CalendarDay, error) {
	start, end, err := validateRange(start, end)
	if err != nil {
		return nil, err
	}
	if err := s.ensureProperty(ctx, propertyID); err != nil {
		return nil, err
	}

	var days []gormModels.CalendarDay
	err = s.db.WithContext(ctx).
		Where("property_id = ? AND date >= ? AND date < ?", propertyID, start, end).
		Order("date ASC").
		Find(&days).Error
	if err != nil {
		return nil, fmt.Errorf("query calendar: %w", err)
	}
	return days, nil
}
