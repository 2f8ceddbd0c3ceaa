package routes

import (
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/gmapscan/internal/httpserver/deps"
	"github.com/MrSnakeDoc/gmapscan/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/gmapscan/internal/httpserver/mw"
)

func init() { Register(registerScan) }

func registerScan(r chi.Router, d deps.Deps) {
	// Each scan can fan out dozens of probes; rate-limit per client IP.
	limit := mw.RateLimit(mw.RateLimitConfig{
		Burst:             20,
		RefillPerIPPerMin: 60,
		MaxEntries:        4096,
		SweepInterval:     time.Minute,
		IdleTTL:           15 * time.Minute,
		TrustProxy:        d.TrustProxy,
	})

	sub := r.With(
		mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger),
		mw.EnforceHost(d.AllowedHosts, d.Logger),
		limit,
	)
	sub.Post("/api/scan", handlers.Scan(d))
	sub.Post("/api/validate", handlers.Validate(d))
}
