package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/gmapscan/internal/httpserver/deps"
)

type componentStatus struct {
	OK      bool   `json:"ok"`
	Mode    string `json:"mode,omitempty"`
	Entries *int   `json:"entries,omitempty"`
	Impact  string `json:"impact,omitempty"`
	Error   string `json:"error,omitempty"`
}

type infraResponse struct {
	Status     string                     `json:"status"`
	Components map[string]componentStatus `json:"components"`
}

func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		components := map[string]componentStatus{
			"cache":   checkCache(d),
			"pricing": checkPricing(d),
			"scanner": checkScanner(d),
		}
		if d.CacheBackend == "redis" {
			components["redis"] = checkRedis(d)
		}

		response := infraResponse{
			Status:     overallStatus(components),
			Components: components,
		}

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

func overallStatus(components map[string]componentStatus) string {
	for _, c := range components {
		if !c.OK {
			// A dead cache never blocks validation, only memoization.
			return "degraded"
		}
	}
	return "ok"
}

func checkCache(d deps.Deps) componentStatus {
	if !d.CachingEnabled {
		return componentStatus{
			OK:     true,
			Mode:   "disabled",
			Impact: "every request re-probes",
		}
	}

	status := componentStatus{OK: true, Mode: d.CacheBackend}
	if d.MemoryCache != nil {
		entries := d.MemoryCache.Len()
		status.Entries = &entries
	}
	return status
}

func checkPricing(d deps.Deps) componentStatus {
	overrides := d.PricingTable.OverrideCount()
	mode := "defaults"
	if overrides > 0 {
		mode = "overridden"
	}
	return componentStatus{
		OK:      true,
		Mode:    mode,
		Entries: &overrides,
	}
}

func checkScanner(d deps.Deps) componentStatus {
	seen := d.Scanner.SeenCount()
	return componentStatus{
		OK:      true,
		Entries: &seen,
	}
}

func checkRedis(d deps.Deps) componentStatus {
	if d.RedisClient == nil {
		return componentStatus{
			OK:     false,
			Mode:   "degraded",
			Impact: "result caching disabled",
			Error:  "client not initialized",
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := d.RedisClient.Ping(ctx).Err(); err != nil {
		return componentStatus{
			OK:     false,
			Mode:   "degraded",
			Impact: "result caching disabled",
			Error:  "timeout",
		}
	}

	return componentStatus{
		OK:     true,
		Mode:   "optimal",
		Impact: "result caching enabled",
		Error:  "none",
	}
}
