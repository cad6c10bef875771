package api

import (
	"encoding/json"
	"net/http"
	"time"

	"staylink/channelsync/internal/models/dtos"
	"staylink/channelsync/internal/services"

	"github.com/go-chi/chi/v5"
)

// ImportBookingHandler handles POST /bookings/import. A claim conflict
// is a 200: the booking comes back cancelled with the conflicting
// dates in the claim payload.
func ImportBookingHandler(svc *services.BookingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.ImportBookingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		checkIn, errIn := time.ParseInLocation(services.DateFormat, req.CheckInDate, time.UTC)
		checkOut, errOut := time.ParseInLocation(services.DateFormat, req.CheckOutDate, time.UTC)
		if errIn != nil || errOut != nil {
			respondWithError(w, http.StatusBadRequest, "check-in and check-out must be YYYY-MM-DD")
			return
		}

		result, err := svc.ImportBooking(r.Context(), services.ImportBookingParams{
			PropertyID:        req.PropertyID,
			Platform:          req.Platform,
			ExternalBookingID: req.ExternalBookingID,
			CheckInDate:       checkIn,
			CheckOutDate:      checkOut,
			GuestRef:          req.GuestRef,
			TotalAmount:       req.TotalAmount,
		})
		if err != nil {
			respondWithDomainError(w, err)
			return
		}

		respondWithSuccess(w, http.StatusOK, result)
	}
}

// CancelBookingHandler handles POST /bookings/{bookingID}/cancel
func CancelBookingHandler(svc *services.BookingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "bookingID")

		booking, err := svc.CancelBooking(r.Context(), id)
		if err != nil {
			respondWithDomainError(w, err)
			return
		}

		respondWithSuccess(w, http.StatusOK, booking)
	}
}

// ListBookingsHandler handles GET /bookings?propertyId=
func ListBookingsHandler(svc *services.BookingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		propertyID := r.URL.Query().Get("propertyId")
		if propertyID == "" {
			respondWithError(w, http.StatusBadRequest, "propertyId query parameter is required")
			return
		}

		bookings, err := svc.ListBookings(r.Context(), propertyID)
		if err != nil {
			respondWithDomainError(w, err)
			return
		}

		respondWithSuccess(w, http.StatusOK, &bookings)
	}
}
