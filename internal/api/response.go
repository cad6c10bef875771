package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"staylink/channelsync/internal/constants"
	"staylink/channelsync/internal/models/dtos/responses"
)

func respondWithSuccess[T any](w http.ResponseWriter, statusCode int, data *T) {
	resp := responses.APIResponse[T]{
		Status:    "success",
		Timestamp: time.Now().UTC(),
		Data:      data,
	}

	w.Header().Set("Content-Type", "application/json")

	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(resp)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	resp := responses.APIResponse[any]{
		Status:    "error",
		Timestamp: time.Now().UTC(),
		Error:     message,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	_ = json.NewEncoder(w).Encode(resp)
}

// respondWithDomainError maps the engine's error taxonomy onto HTTP
// status codes. Claim conflicts never come through here; they are
// returned as data in a success payload.
func respondWithDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, constants.ErrValidation):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, constants.ErrNotFound):
		respondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, constants.ErrDuplicate):
		respondWithError(w, http.StatusConflict, err.Error())
	case constants.IsChannelError(err):
		respondWithError(w, http.StatusBadGateway, err.Error())
	default:
		respondWithError(w, http.StatusInternalServerError, err.Error())
	}
}
