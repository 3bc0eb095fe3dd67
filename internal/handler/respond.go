// internal/handler/respond.go
package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	appErrors "github.com/voicebridge/voicebridge-backend/internal/errors"
)

type errorBody struct {
	Kind   string `json:"kind"`
	Detail string `json:"detail"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

// writeError maps domain errors onto stable response kinds. Internal detail
// never leaks for storage failures.
func writeError(w http.ResponseWriter, err error) {
	var (
		validation  *appErrors.ValidationError
		notFound    *appErrors.NotFoundError
		conflict    *appErrors.ConflictError
		authErr     *appErrors.AuthError
		syncErr     *appErrors.ExternalSyncError
		persistence *appErrors.PersistenceError
	)

	switch {
	case errors.As(err, &validation):
		writeJSON(w, http.StatusBadRequest, errorEnvelope{errorBody{"validation_error", validation.Detail}})
	case errors.As(err, &notFound):
		writeJSON(w, http.StatusNotFound, errorEnvelope{errorBody{"not_found", notFound.Error()}})
	case errors.As(err, &conflict):
		writeJSON(w, http.StatusConflict, errorEnvelope{errorBody{"conflict", conflict.Detail}})
	case errors.As(err, &authErr):
		writeJSON(w, http.StatusBadGateway, errorEnvelope{errorBody{"auth_error", authErr.Error()}})
	case errors.As(err, &syncErr):
		writeJSON(w, http.StatusBadGateway, errorEnvelope{errorBody{"external_sync_error", syncErr.Error()}})
	case errors.As(err, &persistence):
		log.Println("storage error:", persistence)
		writeJSON(w, http.StatusInternalServerError, errorEnvelope{errorBody{"persistence_error", "storage operation failed"}})
	default:
		log.Println("unhandled error:", err)
		writeJSON(w, http.StatusInternalServerError, errorEnvelope{errorBody{"internal_error", "internal server error"}})
	}
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
