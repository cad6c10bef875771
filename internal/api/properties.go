package api

import (
	"encoding/json"
	"net/http"

	"staylink/channelsync/internal/db/repositories"
	"staylink/channelsync/internal/models/dtos"
	gormModels "staylink/channelsync/internal/models/gorm"

	"github.com/go-chi/chi/v5"
)

// CreatePropertyHandler handles POST /properties
func CreatePropertyHandler(propertyRepo *repositories.PropertyRepo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.CreatePropertyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Name == "" {
			respondWithError(w, http.StatusBadRequest, "name is required")
			return
		}
		if req.BasePrice < 0 {
			respondWithError(w, http.StatusBadRequest, "base price must not be negative")
			return
		}

		property := &gormModels.Property{
			Name:      req.Name,
			BasePrice: req.BasePrice,
			Currency:  req.Currency,
			IsActive:  true,
		}
		if err := propertyRepo.Create(r.Context(), property); err != nil {
			respondWithDomainError(w, err)
			return
		}

		respondWithSuccess(w, http.StatusCreated, property)
	}
}

// GetPropertyHandler handles GET /properties/{propertyID}
func GetPropertyHandler(propertyRepo *repositories.PropertyRepo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "propertyID")

		property, err := propertyRepo.GetByID(r.Context(), id)
		if err != nil {
			respondWithDomainError(w, err)
			return
		}

		respondWithSuccess(w, http.StatusOK, property)
	}
}
