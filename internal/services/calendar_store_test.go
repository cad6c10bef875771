package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"staylink/channelsync/internal/constants"
	gormModels "staylink/channelsync/internal/models/gorm"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Setup test database
func setupCalendarDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// A second pool connection would open a separate empty in-memory DB
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&gormModels.Property{}, &gormModels.CalendarDay{}); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	property := &gormModels.Property{ID: "prop-1", Name: "Test Flat", BasePrice: 100, Currency: "EUR", IsActive: true}
	if err := db.Create(property).Error; err != nil {
		t.Fatalf("Failed to create property: %v", err)
	}
	return db
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestBlockRange_BlocksDays(t *testing.T) {
	store := NewCalendarStore(setupCalendarDB(t))
	ctx := context.Background()

	result, err := store.BlockRange(ctx, "prop-1", day(2026, 9, 1), day(2026, 9, 4), "maintenance")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(result.Blocked) != 3 {
		t.Fatalf("Expected 3 blocked days, got %d", len(result.Blocked))
	}
	if len(result.SkippedOwned) != 0 {
		t.Errorf("Expected no skipped days, got %v", result.SkippedOwned)
	}

	days, err := store.Query(ctx, "prop-1", day(2026, 9, 1), day(2026, 9, 4))
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(days) != 3 {
		t.Fatalf("Expected 3 rows, got %d", len(days))
	}
	for _, d := range days {
		if d.IsAvailable {
			t.Errorf("Expected %s unavailable", d.Date.Format(DateFormat))
		}
	}
}

func TestBlockRange_SkipsOwnedDays(t *testing.T) {
	store := NewCalendarStore(setupCalendarDB(t))
	ctx := context.Background()

	claim, err := store.ClaimRange(ctx, "prop-1", day(2026, 9, 2), day(2026, 9, 3), "booking-1")
	if err != nil || !claim.OK {
		t.Fatalf("Claim failed: ok=%v err=%v", claim.OK, err)
	}

	result, err := store.BlockRange(ctx, "prop-1", day(2026, 9, 1), day(2026, 9, 4), "channel:airbnb")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(result.Blocked) != 2 {
		t.Errorf("Expected 2 blocked days, got %v", result.Blocked)
	}
	if len(result.SkippedOwned) != 1 || result.SkippedOwned[0] != "2026-09-02" {
		t.Errorf("Expected 2026-09-02 skipped as owned, got %v", result.SkippedOwned)
	}

	days, err := store.Query(ctx, "prop-1", day(2026, 9, 2), day(2026, 9, 3))
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(days) != 1 || !days[0].OwnedBy("booking-1") {
		t.Error("Expected ownership of 2026-09-02 untouched by the block")
	}
}

func TestClaimRange_ConflictWritesNothing(t *testing.T) {
	store := NewCalendarStore(setupCalendarDB(t))
	ctx := context.Background()

	if claim, err := store.ClaimRange(ctx, "prop-1", day(2026, 9, 3), day(2026, 9, 5), "booking-1"); err != nil || !claim.OK {
		t.Fatalf("First claim failed: ok=%v err=%v", claim.OK, err)
	}

	// Overlaps on 9/4 only; 9/1..9/3 are free. The whole claim must
	// fail and the free days must stay unowned.
	claim, err := store.ClaimRange(ctx, "prop-1", day(2026, 9, 1), day(2026, 9, 5), "booking-2")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if claim.OK {
		t.Fatal("Expected claim to be rejected")
	}
	if len(claim.Conflicts) != 2 {
		t.Errorf("Expected conflicts on 2026-09-03 and 2026-09-04, got %v", claim.Conflicts)
	}

	days, err := store.Query(ctx, "prop-1", day(2026, 9, 1), day(2026, 9, 5))
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	for _, d := range days {
		if d.OwnedBy("booking-2") {
			t.Errorf("Day %s was partially claimed by the rejected booking", d.Date.Format(DateFormat))
		}
	}
	// Only booking-1's two nights exist.
	if len(days) != 2 {
		t.Errorf("Expected 2 written rows, got %d", len(days))
	}
}

func TestClaimRange_ReclaimSameBookingIsNotConflict(t *testing.T) {
	store := NewCalendarStore(setupCalendarDB(t))
	ctx := context.Background()

	if claim, err := store.ClaimRange(ctx, "prop-1", day(2026, 9, 1), day(2026, 9, 3), "booking-1"); err != nil || !claim.OK {
		t.Fatalf("First claim failed: ok=%v err=%v", claim.OK, err)
	}

	claim, err := store.ClaimRange(ctx, "prop-1", day(2026, 9, 1), day(2026, 9, 3), "booking-1")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !claim.OK {
		t.Errorf("Expected re-claim by the same booking to succeed, conflicts: %v", claim.Conflicts)
	}
}

func TestClaimRange_BlockedDayConflicts(t *testing.T) {
	store := NewCalendarStore(setupCalendarDB(t))
	ctx := context.Background()

	if _, err := store.BlockRange(ctx, "prop-1", day(2026, 9, 2), day(2026, 9, 3), "owner stay"); err != nil {
		t.Fatalf("Block failed: %v", err)
	}

	claim, err := store.ClaimRange(ctx, "prop-1", day(2026, 9, 1), day(2026, 9, 4), "booking-1")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if claim.OK {
		t.Fatal("Expected claim over a blocked day to be rejected")
	}
	if len(claim.Conflicts) != 1 || claim.Conflicts[0] != "2026-09-02" {
		t.Errorf("Expected conflict on 2026-09-02, got %v", claim.Conflicts)
	}
}

func TestUnblockRange_LeavesOwnedDays(t *testing.T) {
	store := NewCalendarStore(setupCalendarDB(t))
	ctx := context.Background()

	if claim, err := store.ClaimRange(ctx, "prop-1", day(2026, 9, 2), day(2026, 9, 3), "booking-1"); err != nil || !claim.OK {
		t.Fatalf("Claim failed: ok=%v err=%v", claim.OK, err)
	}
	if _, err := store.BlockRange(ctx, "prop-1", day(2026, 9, 1), day(2026, 9, 2), "x"); err != nil {
		t.Fatalf("Block failed: %v", err)
	}

	if err := store.UnblockRange(ctx, "prop-1", day(2026, 9, 1), day(2026, 9, 4)); err != nil {
		t.Fatalf("Unblock failed: %v", err)
	}

	days, err := store.Query(ctx, "prop-1", day(2026, 9, 1), day(2026, 9, 4))
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	for _, d := range days {
		key := d.Date.Format(DateFormat)
		switch key {
		case "2026-09-01":
			if !d.IsAvailable {
				t.Error("Expected blocked day 2026-09-01 to be unblocked")
			}
		case "2026-09-02":
			if d.IsAvailable || !d.OwnedBy("booking-1") {
				t.Error("Expected owned day 2026-09-02 untouched by unblock")
			}
		}
	}
}

func TestReleaseRange_OnlyReleasesOwner(t *testing.T) {
	store := NewCalendarStore(setupCalendarDB(t))
	ctx := context.Background()

	if claim, err := store.ClaimRange(ctx, "prop-1", day(2026, 9, 1), day(2026, 9, 3), "booking-1"); err != nil || !claim.OK {
		t.Fatalf("Claim 1 failed: ok=%v err=%v", claim.OK, err)
	}
	if claim, err := store.ClaimRange(ctx, "prop-1", day(2026, 9, 3), day(2026, 9, 5), "booking-2"); err != nil || !claim.OK {
		t.Fatalf("Claim 2 failed: ok=%v err=%v", claim.OK, err)
	}

	if err := store.ReleaseRange(ctx, "prop-1", day(2026, 9, 1), day(2026, 9, 5), "booking-1"); err != nil {
		t.Fatalf("Release failed: %v", err)
	}

	days, err := store.Query(ctx, "prop-1", day(2026, 9, 1), day(2026, 9, 5))
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	for _, d := range days {
		key := d.Date.Format(DateFormat)
		switch key {
		case "2026-09-01", "2026-09-02":
			if d.Owned() || !d.IsAvailable {
				t.Errorf("Expected %s released and available", key)
			}
		case "2026-09-03", "2026-09-04":
			if !d.OwnedBy("booking-2") {
				t.Errorf("Expected %s still owned by booking-2", key)
			}
		}
	}
}

func TestSetPrice_PreservesAvailabilityAndOwnership(t *testing.T) {
	store := NewCalendarStore(setupCalendarDB(t))
	ctx := context.Background()

	if claim, err := store.ClaimRange(ctx, "prop-1", day(2026, 9, 1), day(2026, 9, 2), "booking-1"); err != nil || !claim.OK {
		t.Fatalf("Claim failed: ok=%v err=%v", claim.OK, err)
	}

	if err := store.SetPrice(ctx, "prop-1", day(2026, 9, 1), 99.50); err != nil {
		t.Fatalf("SetPrice failed: %v", err)
	}

	days, err := store.Query(ctx, "prop-1", day(2026, 9, 1), day(2026, 9, 2))
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(days) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(days))
	}
	d := days[0]
	if d.Price == nil || *d.Price != 99.50 {
		t.Errorf("Expected price 99.50, got %v", d.Price)
	}
	if d.IsAvailable || !d.OwnedBy("booking-1") {
		t.Error("Expected pricing not to disturb availability or ownership")
	}

	if err := store.SetPrice(ctx, "prop-1", day(2026, 9, 1), -5); !errors.Is(err, constants.ErrValidation) {
		t.Errorf("Expected validation error for negative price, got %v", err)
	}
}

func TestRangeValidation_EndMustBeAfterStart(t *testing.T) {
	store := NewCalendarStore(setupCalendarDB(t))
	ctx := context.Background()

	_, err := store.BlockRange(ctx, "prop-1", day(2026, 9, 5), day(2026, 9, 5), "")
	if !errors.Is(err, constants.ErrValidation) {
		t.Errorf("Expected validation error for empty range, got %v", err)
	}

	_, err = store.ClaimRange(ctx, "prop-1", day(2026, 9, 5), day(2026, 9, 1), "booking-1")
	if !errors.Is(err, constants.ErrValidation) {
		t.Errorf("Expected validation error for inverted range, got %v", err)
	}
}

func TestClaimRange_ConcurrentClaimsOneWinner(t *testing.T) {
	store := NewCalendarStore(setupCalendarDB(t))
	ctx := context.Background()

	type outcome struct {
		ok  bool
		err error
	}
	results := make(chan outcome, 2)

	for _, id := range []string{"booking-a", "booking-b"} {
		bookingID := id
		go func() {
			claim, err := store.ClaimRange(ctx, "prop-1", day(2026, 9, 10), day(2026, 9, 12), bookingID)
			results <- outcome{claim.OK, err}
		}()
	}

	winners := 0
	for i := 0; i < 2; i++ {
		r := <-results
		if r.err != nil {
			t.Fatalf("Claim errored: %v", r.err)
		}
		if r.ok {
			winners++
		}
	}
	if winners != 1 {
		t.Errorf("Expected exactly 1 winning claim, got %d", winners)
	}
}

func TestCalendarStore_UnknownPropertyNotFound(t *testing.T) {
	store := NewCalendarStore(setupCalendarDB(t))
	ctx := context.Background()

	_, err := store.BlockRange(ctx, "no-such-property", day(2026, 12, 1), day(2026, 12, 3), "maintenance")
	if !errors.Is(err, constants.ErrNotFound) {
		t.Errorf("BlockRange: expected not-found error, got %v", err)
	}

	if err := store.SetPrice(ctx, "no-such-property", day(2026, 12, 1), 120); !errors.Is(err, constants.ErrNotFound) {
		t.Errorf("SetPrice: expected not-found error, got %v", err)
	}

	if err := store.UnblockRange(ctx, "no-such-property", day(2026, 12, 1), day(2026, 12, 3)); !errors.Is(err, constants.ErrNotFound) {
		t.Errorf("UnblockRange: expected not-found error, got %v", err)
	}

	_, err = store.ClaimRange(ctx, "no-such-property", day(2026, 12, 1), day(2026, 12, 3), "booking-1")
	if !errors.Is(err, constants.ErrNotFound) {
		t.Errorf("ClaimRange: expected not-found error, got %v", err)
	}

	if err := store.ReleaseRange(ctx, "no-such-property", day(2026, 12, 1), day(2026, 12, 3), "booking-1"); !errors.Is(err, constants.ErrNotFound) {
		t.Errorf("ReleaseRange: expected not-found error, got %v", err)
	}

	// No orphan rows may exist for the rejected property id.
	var count int64
	if err := store.db.Model(&gormModels.CalendarDay{}).Where("property_id = ?", "no-such-property").Count(&count).Error; err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected no calendar rows for unknown property, found %d", count)
	}
}
