package api

import (
	"encoding/json"
	"net/http"

	"staylink/channelsync/internal/models/dtos"
	"staylink/channelsync/internal/services"

	"github.com/go-chi/chi/v5"
)

// ConnectChannelHandler handles POST /integrations
func ConnectChannelHandler(svc *services.IntegrationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.CreateIntegrationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		integ, err := svc.Connect(r.Context(), req)
		if err != nil {
			respondWithDomainError(w, err)
			return
		}

		respondWithSuccess(w, http.StatusCreated, integ)
	}
}

// ListIntegrationsHandler handles GET /integrations?propertyId=
func ListIntegrationsHandler(svc *services.IntegrationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		propertyID := r.URL.Query().Get("propertyId")
		if propertyID == "" {
			respondWithError(w, http.StatusBadRequest, "propertyId query parameter is required")
			return
		}

		integrations, err := svc.ListByProperty(r.Context(), propertyID)
		if err != nil {
			respondWithDomainError(w, err)
			return
		}

		respondWithSuccess(w, http.StatusOK, &integrations)
	}
}

// UpdateIntegrationHandler handles PATCH /integrations/{integrationID}
func UpdateIntegrationHandler(svc *services.IntegrationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "integrationID")

		var req dtos.UpdateIntegrationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		integ, err := svc.Update(r.Context(), id, req)
		if err != nil {
			respondWithDomainError(w, err)
			return
		}

		respondWithSuccess(w, http.StatusOK, integ)
	}
}

// DisconnectChannelHandler handles DELETE /integrations/{integrationID}
func DisconnectChannelHandler(svc *services.IntegrationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "integrationID")

		if err := svc.Disconnect(r.Context(), id); err != nil {
			respondWithDomainError(w, err)
			return
		}

		type deleted struct {
			ID string `json:"id"`
		}
		respondWithSuccess(w, http.StatusOK, &deleted{ID: id})
	}
}
