package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/atinyakov/GophNotes/internal/models"
	"github.com/atinyakov/GophNotes/internal/service"
	"go.uber.org/zap"
)

// errorResponse is the body of every single-message error.
type errorResponse struct {
	Error string `json:"error"`
}

// validationResponse lists every rejected field.
type validationResponse struct {
	Errors []models.FieldError `json:"errors"`
}

// messageResponse confirms an operation without a record body.
type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// decodeBody decodes the JSON request body into dst. On failure it writes a
// 400 response and returns false.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// decodePatch is decodeBody for partial updates, where an empty body is an
// empty patch.
func decodePatch(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// failure maps a service error onto the response. Store faults are logged
// and answered with a generic message.
func failure(w http.ResponseWriter, log *zap.Logger, op, owner, notFound string, err error) {
	var verr *service.ValidationError
	switch {
	case errors.Is(err, models.ErrNotFound):
		writeError(w, http.StatusNotFound, notFound)
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, validationResponse{Errors: verr.Fields})
	default:
		log.Error("store fault", zap.String("op", op), zap.String("owner", owner), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Server error")
	}
}
