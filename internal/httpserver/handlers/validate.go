package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/MrSnakeDoc/gmapscan/internal/domain"
	"github.com/MrSnakeDoc/gmapscan/internal/httpserver/deps"
	"github.com/MrSnakeDoc/gmapscan/internal/logger"
	"github.com/MrSnakeDoc/gmapscan/internal/scanner"
)

const maxValidatePayload = 4 << 10 // a key plus json framing

type validateRequest struct {
	Key string `json:"key"`
}

type validateResponse struct {
	*domain.Finding
	Severity scanner.Severity `json:"severity"`
}

// Validate probes a single key and returns its cost-annotated finding.
// Unlike /scan, it bypasses the seen-key dedupe: an explicit request always
// answers (the validator's cache still avoids redundant probing).
func Validate(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		var req validateRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, maxValidatePayload)).Decode(&req); err != nil {
			writeError(w, d, http.StatusBadRequest, "invalid json body")
			return
		}

		key := domain.APIKey(req.Key)
		if !key.IsWellFormed() {
			writeError(w, d, http.StatusBadRequest, "key is not a well-formed Maps API key")
			return
		}

		f, err := d.Scanner.ProcessKey(r.Context(), key)
		if err != nil {
			if r.Context().Err() != nil {
				return
			}
			d.Logger.Error("validation failed",
				logger.String("key", key.Redacted()),
				logger.Error(err))
			writeError(w, d, http.StatusInternalServerError, "validation failed")
			return
		}

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(validateResponse{
			Finding:  f,
			Severity: d.Scanner.Severity(f),
		})
	}
}
