package api

import (
	"encoding/json"
	"net/http"
	"time"

	"staylink/channelsync/internal/models/dtos"
	"staylink/channelsync/internal/services"

	"github.com/go-chi/chi/v5"
)

// parseDateRange converts the UI's inclusive end date to the store's
// half-open [start, end) convention.
func parseDateRange(startStr, endStr string) (time.Time, time.Time, bool) {
	start, err := time.ParseInLocation(services.DateFormat, startStr, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	end, err := time.ParseInLocation(services.DateFormat, endStr, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	return start, end.AddDate(0, 0, 1), true
}

// QueryCalendarHandler handles GET /properties/{propertyID}/calendar?start=&end=
func QueryCalendarHandler(store *services.CalendarStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		propertyID := chi.URLParam(r, "propertyID")

		start, end, ok := parseDateRange(r.URL.Query().Get("start"), r.URL.Query().Get("end"))
		if !ok {
			respondWithError(w, http.StatusBadRequest, "start and end query parameters must be YYYY-MM-DD")
			return
		}

		days, err := store.Query(r.Context(), propertyID, start, end)
		if err != nil {
			respondWithDomainError(w, err)
			return
		}

		respondWithSuccess(w, http.StatusOK, &days)
	}
}

// BlockRangeHandler handles POST /properties/{propertyID}/calendar/block
func BlockRangeHandler(store *services.CalendarStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		propertyID := chi.URLParam(r, "propertyID")

		var req dtos.DateRangeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		start, end, ok := parseDateRange(req.Start, req.End)
		if !ok {
			respondWithError(w, http.StatusBadRequest, "start and end must be YYYY-MM-DD")
			return
		}

		result, err := store.BlockRange(r.Context(), propertyID, start, end, req.Reason)
		if err != nil {
			respondWithDomainError(w, err)
			return
		}

		respondWithSuccess(w, http.StatusOK, result)
	}
}

// UnblockRangeHandler handles POST /properties/{propertyID}/calendar/unblock
func UnblockRangeHandler(store *services.CalendarStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		propertyID := chi.URLParam(r, "propertyID")

		var req dtos.DateRangeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		start, end, ok := parseDateRange(req.Start, req.End)
		if !ok {
			respondWithError(w, http.StatusBadRequest, "start and end must be YYYY-MM-DD")
			return
		}

		if err := store.UnblockRange(r.Context(), propertyID, start, end); err != nil {
			respondWithDomainError(w, err)
			return
		}

		type unblocked struct {
			Start string `json:"start"`
			End   string `json:"end"`
		}
		respondWithSuccess(w, http.StatusOK, &unblocked{Start: req.Start, End: req.End})
	}
}

// SetPriceHandler handles POST /properties/{propertyID}/calendar/price
func SetPriceHandler(store *services.CalendarStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		propertyID := chi.URLParam(r, "propertyID")

		var req dtos.SetPriceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		date, err := time.ParseInLocation(services.DateFormat, req.Date, time.UTC)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}

		if err := store.SetPrice(r.Context(), propertyID, date, req.Price); err != nil {
			respondWithDomainError(w, err)
			return
		}

		respondWithSuccess(w, http.StatusOK, &req)
	}
}
