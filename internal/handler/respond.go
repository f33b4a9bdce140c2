package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/fitbloom/fitbloom/internal/repository"
	"github.com/fitbloom/fitbloom/internal/service"
)

// maxBodySize caps JSON request bodies.
const maxBodySize = 1 << 20

type messageResponse struct {
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, messageResponse{Message: message})
}

// decodeJSON reads a JSON body into dst. It writes a 400 and returns false
// when the body is not valid JSON.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(dst)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return false
	}
	return true
}

// readBody returns the raw request body for handlers that decode it themselves.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Could not read request body")
		return nil, false
	}
	return data, true
}

var notFoundMessages = map[error]string{
	repository.ErrGoalNotFound:         "Goal not found",
	repository.ErrUserNotFound:         "User not found",
	repository.ErrDoctorNotFound:       "Doctor not found",
	repository.ErrConsultationNotFound: "Consultation not found",
	repository.ErrArticleNotFound:      "Article not found",
	repository.ErrFileNotFound:         "File not found",
}

// handleServiceError maps service and repository errors to responses.
// Anything unrecognised is logged and reported as a bare 500.
func handleServiceError(w http.ResponseWriter, err error, msg string, args ...any) {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		writeError(w, http.StatusBadRequest, verr.Message)
		return
	}

	for sentinel, message := range notFoundMessages {
		if errors.Is(err, sentinel) {
			writeError(w, http.StatusNotFound, message)
			return
		}
	}

	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, service.ErrEmailAlreadyExists):
		writeError(w, http.StatusConflict, "Email already in use")
	default:
		slog.Error(msg, append([]any{"error", err}, args...)...)
		writeError(w, http.StatusInternalServerError, "Server error")
	}
}

// NotFound answers unmatched routes.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "Route not found: "+r.Method+" "+r.URL.Path)
}
