package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Kamaleshwaran16/Kambaa-Ai-project/models"
	"github.com/Kamaleshwaran16/Kambaa-Ai-project/repository"
	"github.com/Kamaleshwaran16/Kambaa-Ai-project/services"
	"github.com/Kamaleshwaran16/Kambaa-Ai-project/utilities"
)

type errorResponse struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		utilities.LogError(err, "write response")
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}

// writeServiceError maps the error taxonomy onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, models.ErrUnknownField),
		errors.Is(err, models.ErrInvalidPriority):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, context.DeadlineExceeded), errors.Is(r.Context().Err(), context.DeadlineExceeded):
		utilities.LogWarn("request timed out", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusServiceUnavailable, "request timed out")
	default:
		utilities.LogError(err, "request failed", "method", r.Method, "path", r.URL.Path)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
