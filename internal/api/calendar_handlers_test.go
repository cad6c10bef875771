package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"staylink/channelsync/internal/constants"
	"staylink/channelsync/internal/db/repositories"
	"staylink/channelsync/internal/models/dtos"
	"staylink/channelsync/internal/models/dtos/responses"
	gormModels "staylink/channelsync/internal/models/gorm"
	"staylink/channelsync/internal/services"

	"github.com/go-chi/chi/v5"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Setup a router with calendar and booking routes over an in-memory DB
func setupCalendarRouter(t *testing.T) *chi.Mux {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&gormModels.Property{}, &gormModels.CalendarDay{}, &gormModels.PlatformBooking{}); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	property := &gormModels.Property{ID: "prop-1", Name: "Test Flat", BasePrice: 100, Currency: "EUR", IsActive: true}
	if err := db.Create(property).Error; err != nil {
		t.Fatalf("Failed to create property: %v", err)
	}

	store := services.NewCalendarStore(db)
	bookingSvc := services.NewBookingService(repositories.NewBookingRepo(db), repositories.NewPropertyRepo(db), store)

	r := chi.NewRouter()
	r.Get("/properties/{propertyID}/calendar", QueryCalendarHandler(store))
	r.Post("/properties/{propertyID}/calendar/block", BlockRangeHandler(store))
	r.Post("/properties/{propertyID}/calendar/unblock", UnblockRangeHandler(store))
	r.Post("/properties/{propertyID}/calendar/price", SetPriceHandler(store))
	r.Post("/bookings/import", ImportBookingHandler(bookingSvc))
	return r
}

func postJSON(t *testing.T, router *chi.Mux, path string, body interface{}) *httptest.ResponseRecorder {
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("Failed to marshal body: %v", err)
	}
	req := httptest.NewRequest("POST", path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestBlockRangeHandler_InclusiveEndDate(t *testing.T) {
	router := setupCalendarRouter(t)

	rec := postJSON(t, router, "/properties/prop-1/calendar/block", dtos.DateRangeRequest{
		Start: "2026-11-01", End: "2026-11-03", Reason: "maintenance",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp responses.APIResponse[dtos.BlockResult]
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	// End is inclusive at the API: 11-01, 11-02 and 11-03.
	if resp.Data == nil || len(resp.Data.Blocked) != 3 {
		t.Fatalf("Expected 3 blocked days, got %+v", resp.Data)
	}
}

func TestBlockRangeHandler_BadDates(t *testing.T) {
	router := setupCalendarRouter(t)

	rec := postJSON(t, router, "/properties/prop-1/calendar/block", dtos.DateRangeRequest{
		Start: "November 1st", End: "2026-11-03",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for malformed date, got %d", rec.Code)
	}

	// Inverted range is a domain validation error.
	rec = postJSON(t, router, "/properties/prop-1/calendar/block", dtos.DateRangeRequest{
		Start: "2026-11-05", End: "2026-11-01",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for inverted range, got %d", rec.Code)
	}
}

func TestSetPriceHandler_NegativePrice(t *testing.T) {
	router := setupCalendarRouter(t)

	rec := postJSON(t, router, "/properties/prop-1/calendar/price", dtos.SetPriceRequest{
		Date: "2026-11-01", Price: -10,
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for negative price, got %d", rec.Code)
	}
}

func TestImportBookingHandler_ConflictIsNotAnHTTPError(t *testing.T) {
	router := setupCalendarRouter(t)

	first := postJSON(t, router, "/bookings/import", dtos.ImportBookingRequest{
		PropertyID:        "prop-1",
		Platform:          constants.PlatformAirbnb,
		ExternalBookingID: "EXT-1",
		CheckInDate:       "2026-11-01",
		CheckOutDate:      "2026-11-05",
	})
	if first.Code != http.StatusOK {
		t.Fatalf("Expected 200 for first import, got %d: %s", first.Code, first.Body.String())
	}

	second := postJSON(t, router, "/bookings/import", dtos.ImportBookingRequest{
		PropertyID:        "prop-1",
		Platform:          constants.PlatformBookingCom,
		ExternalBookingID: "EXT-2",
		CheckInDate:       "2026-11-03",
		CheckOutDate:      "2026-11-06",
	})
	if second.Code != http.StatusOK {
		t.Fatalf("Expected 200 for conflicting import, got %d: %s", second.Code, second.Body.String())
	}

	var resp responses.APIResponse[dtos.ImportResult]
	if err := json.Unmarshal(second.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Data == nil {
		t.Fatal("Expected data payload")
	}
	if resp.Data.Claim.OK {
		t.Error("Expected the claim to be rejected")
	}
	if resp.Data.Booking.Status != constants.BookingStatusCancelled {
		t.Errorf("Expected booking cancelled, got %s", resp.Data.Booking.Status)
	}
	if len(resp.Data.Claim.Conflicts) != 2 {
		t.Errorf("Expected conflicts on 2026-11-03 and 2026-11-04, got %v", resp.Data.Claim.Conflicts)
	}
}

func TestImportBookingHandler_UnknownProperty(t *testing.T) {
	router := setupCalendarRouter(t)

	rec := postJSON(t, router, "/bookings/import", dtos.ImportBookingRequest{
		PropertyID:        "no-such-property",
		Platform:          constants.PlatformAirbnb,
		ExternalBookingID: "EXT-9",
		CheckInDate:       "2026-11-01",
		CheckOutDate:      "2026-11-02",
	})
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown property, got %d", rec.Code)
	}
}

func TestBlockRangeHandler_UnknownProperty(t *testing.T) {
	router := setupCalendarRouter(t)

	rec := postJSON(t, router, "/properties/no-such-property/calendar/block", dtos.DateRangeRequest{
		Start: "2026-12-01", End: "2026-12-02", Reason: "maintenance",
	})
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown property, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = postJSON(t, router, "/properties/no-such-property/calendar/price", dtos.SetPriceRequest{
		Date: "2026-12-01", Price: 120,
	})
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown property price, got %d: %s", rec.Code, rec.Body.String())
	}
}
