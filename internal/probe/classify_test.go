package probe

import (
	"testing"

	"github.com/MrSnakeDoc/gmapscan/internal/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   domain.Outcome
	}{
		{
			name:   "geocoding success",
			status: 200,
			body:   `{"results":[{"formatted_address":"Test"}],"status":"OK"}`,
			want:   domain.OutcomeEnabled,
		},
		{
			name:   "zero results still proves the key works",
			status: 200,
			body:   `{"results":[],"status":"ZERO_RESULTS"}`,
			want:   domain.OutcomeEnabled,
		},
		{
			name:   "static map image",
			status: 200,
			body:   "\x89PNG\r\n\x1a\n....binary....",
			want:   domain.OutcomeEnabled,
		},
		{
			name:   "maps javascript loader",
			status: 200,
			body:   `window.google = window.google || {}; google.maps = google.maps || {};`,
			want:   domain.OutcomeEnabled,
		},
		{
			name:   "invalid key with http 200",
			status: 200,
			body:   `{"error_message":"The provided API key is invalid.","results":[],"status":"REQUEST_DENIED"}`,
			want:   domain.OutcomeRestrictionBlocked,
		},
		{
			name:   "referer restriction with http 200",
			status: 200,
			body:   `{"error_message":"API keys with referer restrictions cannot be used with this API.","results":[],"status":"REQUEST_DENIED"}`,
			want:   domain.OutcomeRestrictionBlocked,
		},
		{
			name:   "ip restriction",
			status: 200,
			body:   `{"error_message":"This IP, site or mobile application is not authorized to use this API key.","status":"REQUEST_DENIED"}`,
			want:   domain.OutcomeRestrictionBlocked,
		},
		{
			name:   "plain 403",
			status: 403,
			body:   "Forbidden",
			want:   domain.OutcomeRestrictionBlocked,
		},
		{
			name:   "project not authorized is disabled, not restricted",
			status: 200,
			body:   `{"error_message":"This API project is not authorized to use this API.","results":[],"status":"REQUEST_DENIED"}`,
			want:   domain.OutcomeDisabled,
		},
		{
			name:   "billing disabled",
			status: 200,
			body:   `{"error_message":"You must enable Billing on the Google Cloud Project","status":"REQUEST_DENIED"}`,
			want:   domain.OutcomeDisabled,
		},
		{
			name:   "over query limit",
			status: 200,
			body:   `{"results":[],"status":"OVER_QUERY_LIMIT"}`,
			want:   domain.OutcomeDisabled,
		},
		{
			name:   "google error envelope api disabled",
			status: 403,
			body:   `{"error":{"code":403,"message":"Roads API has not been used in project 12345 before or it is disabled.","status":"PERMISSION_DENIED","errors":[{"reason":"accessNotConfigured"}]}}`,
			want:   domain.OutcomeDisabled,
		},
		{
			name:   "google error envelope quota",
			status: 429,
			body:   `{"error":{"code":429,"message":"Quota exceeded for quota metric","status":"RESOURCE_EXHAUSTED"}}`,
			want:   domain.OutcomeDisabled,
		},
		{
			name:   "server error",
			status: 500,
			body:   "Internal Server Error",
			want:   domain.OutcomeTransientError,
		},
		{
			name:   "unknown maps error is transient",
			status: 200,
			body:   `{"results":[],"status":"UNKNOWN_ERROR"}`,
			want:   domain.OutcomeTransientError,
		},
		{
			name:   "unrecognized 4xx is inconclusive",
			status: 418,
			body:   "weird",
			want:   domain.OutcomeTransientError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := Classify(tt.status, []byte(tt.body))
			if got != tt.want {
				t.Errorf("Classify(%d, %q) = %v, want %v", tt.status, tt.body, got, tt.want)
			}
		})
	}
}

func TestClassifyDetailPrefersStructuredMessage(t *testing.T) {
	body := `{"error_message":"The provided API key is invalid.","status":"REQUEST_DENIED"}`
	_, detail := Classify(200, []byte(body))
	if detail != "The provided API key is invalid." {
		t.Errorf("detail = %q, want the structured error_message", detail)
	}
}
