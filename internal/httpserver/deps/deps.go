package deps

import (
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/gmapscan/internal/cache"
	"github.com/MrSnakeDoc/gmapscan/internal/logger"
	"github.com/MrSnakeDoc/gmapscan/internal/pricing"
	"github.com/MrSnakeDoc/gmapscan/internal/scanner"
)

type Deps struct {
	Logger               logger.Logger
	StartTime            time.Time
	Version              string
	Commit               string
	BuildDate            string
	GoVersion            string
	TimeNow              func() time.Time // for testing, defaults to time.Now
	AllowedHosts         []string         // Host headers allowed to access the server
	AllowedCIDRS         []string         // IPs allowed to access admin endpoints
	TrustProxy           bool             // true if running behind a trusted reverse proxy (e.g., cloudflared)
	Scanner              *scanner.Scanner // key extraction + validation + cost assembly pipeline
	PricingTable         *pricing.Table   // live pricing table (for infra reporting)
	RedisClient          *redis.Client    // nil unless the redis cache backend is active
	MemoryCache          *cache.Memory    // nil unless the memory cache backend is active
	CacheBackend         string           // "memory" | "redis"
	CachingEnabled       bool             // false => every request re-probes
	PricingReloadTrigger chan struct{}    // Channel to trigger manual pricing reload
}
