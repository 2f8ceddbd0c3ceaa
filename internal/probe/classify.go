package probe

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/MrSnakeDoc/gmapscan/internal/domain"
)

// mapsStatus is the envelope of the classic Maps web-service APIs
// (geocoding, directions, places, ...). These answer HTTP 200 even when the
// key is rejected; the status field carries the truth.
type mapsStatus struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
}

// googleError is the standard Google API error envelope used by newer
// endpoints (roads, streetview metadata on some failures).
type googleError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
		Errors  []struct {
			Reason  string `json:"reason"`
			Message string `json:"message"`
		} `json:"errors"`
	} `json:"error"`
}

// restrictedSignals mark responses rejected because of the key itself:
// invalid key, or a referer/IP/app restriction blocking this caller.
// Checked before disabledSignals: "not authorized to use this API key"
// (restriction) must not be swallowed by "not authorized to use this API"
// (service disabled).
var restrictedSignals = []string{
	"api key is invalid",
	"the provided api key is expired",
	"api keys with referer restrictions",
	"requests from referer",
	"requests from this ip",
	"not authorized to use this api key",
	"key is restricted",
	"api key not valid",
}

// disabledSignals mark responses where the key was fine but the service is
// not usable: API not enabled on the project, billing missing, quota gone.
var disabledSignals = []string{
	"this api project is not authorized to use this api",
	"not authorized to use this api",
	"api project is not authorized",
	"you must enable billing",
	"billing has not been enabled",
	"has not been used in project",
	"it is disabled",
	"api is not enabled",
	"daily limit",
	"quota exceeded",
}

// Classify turns one probe response into an outcome. Content is inspected
// before status codes because Maps APIs answer 200 for most error
// conditions. The exact phrase lists are empirical and expected to evolve
// with Google's error copy.
func Classify(statusCode int, body []byte) (domain.Outcome, string) {
	lower := strings.ToLower(string(body))

	if phrase := firstMatch(lower, restrictedSignals); phrase != "" {
		return domain.OutcomeRestrictionBlocked, errorDetail(body, phrase)
	}
	if phrase := firstMatch(lower, disabledSignals); phrase != "" {
		return domain.OutcomeDisabled, errorDetail(body, phrase)
	}

	// Classic Maps envelope: a status field decides.
	var ms mapsStatus
	if err := json.Unmarshal(body, &ms); err == nil && ms.Status != "" {
		switch ms.Status {
		case "OK", "ZERO_RESULTS", "INVALID_REQUEST", "NOT_FOUND":
			// The key was accepted; request shape issues are our problem,
			// not the key's.
			return domain.OutcomeEnabled, ""
		case "OVER_QUERY_LIMIT", "OVER_DAILY_LIMIT", "RESOURCE_EXHAUSTED":
			return domain.OutcomeDisabled, ms.ErrorMessage
		case "REQUEST_DENIED":
			return domain.OutcomeRestrictionBlocked, ms.ErrorMessage
		case "UNKNOWN_ERROR":
			return domain.OutcomeTransientError, ms.ErrorMessage
		}
	}

	// Standard Google error envelope.
	var ge googleError
	if err := json.Unmarshal(body, &ge); err == nil && ge.Error.Code != 0 {
		switch ge.Error.Status {
		case "PERMISSION_DENIED":
			return domain.OutcomeRestrictionBlocked, ge.Error.Message
		case "RESOURCE_EXHAUSTED":
			return domain.OutcomeDisabled, ge.Error.Message
		case "UNAVAILABLE", "INTERNAL", "DEADLINE_EXCEEDED":
			return domain.OutcomeTransientError, ge.Error.Message
		}
		if ge.Error.Code == http.StatusForbidden {
			return domain.OutcomeRestrictionBlocked, ge.Error.Message
		}
	}

	if statusCode == http.StatusForbidden {
		return domain.OutcomeRestrictionBlocked, "HTTP 403"
	}
	if statusCode >= 200 && statusCode < 300 {
		// 2xx with no recognizable error payload: a real answer (tile,
		// script, JSON result), so the key can invoke this service.
		return domain.OutcomeEnabled, ""
	}
	// 5xx, unrecognized 4xx or an unparseable body: inconclusive.
	return domain.OutcomeTransientError, fmt.Sprintf("HTTP %d", statusCode)
}

func firstMatch(lower string, phrases []string) string {
	for _, p := range phrases {
		if strings.Contains(lower, p) {
			return p
		}
	}
	return ""
}

// errorDetail prefers the structured error message when the body is JSON,
// falling back to the matched phrase for plain-text error pages.
func errorDetail(body []byte, phrase string) string {
	var ms mapsStatus
	if err := json.Unmarshal(body, &ms); err == nil && ms.ErrorMessage != "" {
		return ms.ErrorMessage
	}
	var ge googleError
	if err := json.Unmarshal(body, &ge); err == nil && ge.Error.Message != "" {
		return ge.Error.Message
	}
	return phrase
}
