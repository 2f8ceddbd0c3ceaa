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

// maxScanPayload bounds the request body: host metadata plus one intercepted
// response. Responses bigger than this are truncated upstream anyway.
const maxScanPayload = 4 << 20 // 4 MiB

type scanRequest struct {
	Host string `json:"host"`
	Tool string `json:"tool,omitempty"`
	Body string `json:"body"`
}

type scanFinding struct {
	*domain.Finding
	Severity scanner.Severity `json:"severity"`
}

type scanResponse struct {
	Findings []scanFinding `json:"findings"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Scan accepts an intercepted HTTP response body, extracts Maps API keys and
// returns one cost-annotated finding per new key.
func Scan(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		var req scanRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, maxScanPayload)).Decode(&req); err != nil {
			writeError(w, d, http.StatusBadRequest, "invalid json body")
			return
		}
		if req.Host == "" {
			writeError(w, d, http.StatusBadRequest, "host is required")
			return
		}

		findings, err := d.Scanner.ScanResponse(r.Context(),
			scanner.Source{Host: req.Host, Tool: req.Tool}, []byte(req.Body))
		if err != nil {
			if r.Context().Err() != nil {
				// Client went away mid-validation, nothing to answer.
				return
			}
			d.Logger.Error("scan failed", logger.Error(err))
			writeError(w, d, http.StatusInternalServerError, "scan failed")
			return
		}

		resp := scanResponse{Findings: make([]scanFinding, 0, len(findings))}
		for _, f := range findings {
			resp.Findings = append(resp.Findings, scanFinding{
				Finding:  f,
				Severity: d.Scanner.Severity(f),
			})
		}

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func writeError(w http.ResponseWriter, d deps.Deps, status int, msg string) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(errorResponse{Error: msg}); err != nil {
		d.Logger.Debug("failed to write error response", logger.Error(err))
	}
}
