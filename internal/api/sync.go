package api

import (
	"net/http"
	"strconv"
	"time"

	"staylink/channelsync/internal/common"
	"staylink/channelsync/internal/db/repositories"
	"staylink/channelsync/internal/jobs"
	"staylink/channelsync/internal/logging"

	"github.com/go-chi/chi/v5"
)

// TriggerSyncHandler handles POST /integrations/{integrationID}/sync.
// With Redis configured the request is queued for the sync workers;
// without it the sync runs inline and the response carries its outcome.
func TriggerSyncHandler(syncJob *jobs.ChannelSyncJob, queue *common.SyncQueueService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "integrationID")

		// Reject unknown integrations up front in both modes.
		if _, _, err := syncJob.ResolveIntegration(r.Context(), id); err != nil {
			respondWithDomainError(w, err)
			return
		}

		if queue != nil {
			req := &common.SyncRequest{
				IntegrationID: id,
				RequestedAt:   time.Now().UTC(),
			}
			if err := queue.Enqueue(r.Context(), req); err != nil {
				logging.Error("Failed to enqueue sync request", "integration_id", id, "error", err.Error())
				respondWithError(w, http.StatusInternalServerError, "failed to enqueue sync request")
				return
			}

			type queued struct {
				IntegrationID string `json:"integrationId"`
				Queued        bool   `json:"queued"`
			}
			respondWithSuccess(w, http.StatusAccepted, &queued{IntegrationID: id, Queued: true})
			return
		}

		if err := syncJob.SyncAll(r.Context(), id); err != nil {
			respondWithDomainError(w, err)
			return
		}

		type done struct {
			IntegrationID string `json:"integrationId"`
			Completed     bool   `json:"completed"`
		}
		respondWithSuccess(w, http.StatusOK, &done{IntegrationID: id, Completed: true})
	}
}

// ListSyncLogsHandler handles GET /sync/logs?integrationId=|propertyId=
func ListSyncLogsHandler(syncLogRepo *repositories.SyncLogRepo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		integrationID := r.URL.Query().Get("integrationId")
		propertyID := r.URL.Query().Get("propertyId")
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

		switch {
		case integrationID != "":
			logs, err := syncLogRepo.ListByIntegration(r.Context(), integrationID, limit)
			if err != nil {
				respondWithDomainError(w, err)
				return
			}
			respondWithSuccess(w, http.StatusOK, &logs)
		case propertyID != "":
			logs, err := syncLogRepo.ListByProperty(r.Context(), propertyID, limit)
			if err != nil {
				respondWithDomainError(w, err)
				return
			}
			respondWithSuccess(w, http.StatusOK, &logs)
		default:
			respondWithError(w, http.StatusBadRequest, "integrationId or propertyId query parameter is required")
		}
	}
}

// SyncLogStatsHandler handles GET /sync/stats?propertyId=
func SyncLogStatsHandler(statsRepo *repositories.SyncLogStatsRepo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		propertyID := r.URL.Query().Get("propertyId")
		if propertyID == "" {
			respondWithError(w, http.StatusBadRequest, "propertyId query parameter is required")
			return
		}

		stats, err := statsRepo.StatsByProperty(r.Context(), propertyID)
		if err != nil {
			respondWithDomainError(w, err)
			return
		}

		respondWithSuccess(w, http.StatusOK, &stats)
	}
}
