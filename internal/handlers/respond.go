package handlers

import (
	"Neighborly/internal/service"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// statusFor maps domain error kinds to HTTP status codes.
func statusFor(kind service.Kind) int {
	switch kind {
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindUnauthorized:
		return http.StatusUnauthorized
	case service.KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusBadRequest
	}
}

// writeServiceError shows domain errors verbatim and hides everything else
// behind a generic 500.
func writeServiceError(w http.ResponseWriter, logger *zap.SugaredLogger, op string, err error) {
	var de *service.Error
	if errors.As(err, &de) {
		writeError(w, statusFor(de.Kind), de.Msg)
		return
	}
	logger.Errorw(op+": server error", "error", err)
	writeError(w, http.StatusInternalServerError, "Server error")
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	return dec.Decode(v)
}
