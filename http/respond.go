package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"fund-projection/domain"
	"fund-projection/service"
)

const maxBodyBytes = 1 << 16

// decodeJSON enforces POST, a JSON content type and a bounded body. It writes
// the error response itself and reports whether the handler may continue.
func decodeJSON(w http.ResponseWriter, r *http.Request, log logrus.FieldLogger, dst any) bool {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return false
	}

	contentType := r.Header.Get("Content-Type")
	if !strings.Contains(contentType, "application/json") {
		http.Error(w, "Content-Type must be application/json", http.StatusUnsupportedMediaType)
		return false
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		log.WithError(err).Debug("error decoding request body")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

// writeJSON encodes into a buffer first so a failed encode never leaves a
// half-written 200.
func writeJSON(w http.ResponseWriter, log logrus.FieldLogger, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		log.WithError(err).Error("error encoding response")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		log.WithError(err).Warn("error writing response")
	}
}

// writeServiceError maps validation failures to 400 and everything else to 500.
func writeServiceError(w http.ResponseWriter, log logrus.FieldLogger, err error) {
	if errors.Is(err, service.ErrInvalidParameters) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	log.WithError(err).Error("request failed")
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// normalizeTier accepts any casing of a known tier. Unknown tiers are left
// as-is for the service to reject.
func normalizeTier(tier domain.VarianceTier) domain.VarianceTier {
	if parsed, ok := domain.ParseVarianceTier(string(tier)); ok {
		return parsed
	}
	return tier
}

func wantsExplanation(r *http.Request) bool {
	explain, _ := strconv.ParseBool(r.URL.Query().Get("explain"))
	return explain
}
