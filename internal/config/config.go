package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Validation pipeline
	RequestTimeout      time.Duration // per-probe HTTP timeout
	ValidationTimeout   time.Duration // hard cap for one full key validation
	MaxRetries          int           // total attempts per probe, network failures only
	RetryBaseDelay      time.Duration // first backoff step (grows exponentially)
	RetryMaxDelay       time.Duration // backoff cap
	MaxConcurrentProbes int           // probe fan-out bound per key

	// Caching
	EnableCaching bool          // false => every request re-probes
	CacheBackend  string        // "memory" | "redis"
	CacheTTL      time.Duration // validation record freshness window

	// Pricing
	PricingFile           string        // path to the pricing overrides yaml (optional)
	PricingReloadInterval time.Duration // interval to reload the overrides file
	CacheSweepInterval    time.Duration // interval to sweep expired memory-cache entries
	CostThreshold         float64       // USD per 1k above which a finding is severe

	// Scanner scope
	ExcludedHosts  []string // substring match, never inspect responses from these
	MonitoredTools []string // interception tools to accept (empty = all)

	// Redis (required only when CacheBackend == "redis")
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)

	AllowedHosts []string // optional, restrict access to specific Host headers
	AllowedCIDRS []string // optional, restrict access to specific IP (e.g. "1.2.3.4, 5.6.7.8")
	TrustProxy   bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("GMAP_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("GMAP_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("GMAP_LOG_LEVEL", "info"),
		PrettyLog: mustBool("GMAP_PRETTY_LOG", true),

		// Validation pipeline
		RequestTimeout:      mustDuration("GMAP_REQUEST_TIMEOUT", 10*time.Second),
		ValidationTimeout:   mustDuration("GMAP_VALIDATION_TIMEOUT", 30*time.Second),
		MaxRetries:          getenvInt("GMAP_MAX_RETRIES", 3),
		RetryBaseDelay:      mustDuration("GMAP_RETRY_BASE_DELAY", 500*time.Millisecond),
		RetryMaxDelay:       mustDuration("GMAP_RETRY_MAX_DELAY", 5*time.Second),
		MaxConcurrentProbes: getenvInt("GMAP_MAX_CONCURRENT_PROBES", 5),

		// Caching
		EnableCaching: mustBool("GMAP_ENABLE_CACHING", true),
		CacheBackend:  getenv("GMAP_CACHE_BACKEND", "memory"),
		CacheTTL:      mustDuration("GMAP_CACHE_TTL", time.Hour),

		// Pricing
		PricingFile:           getenv("GMAP_PRICING_FILE", ""),
		PricingReloadInterval: mustDuration("GMAP_PRICING_RELOAD_INTERVAL", time.Hour),
		CacheSweepInterval:    mustDuration("GMAP_CACHE_SWEEP_INTERVAL", 10*time.Minute),
		CostThreshold:         getenvFloat("GMAP_COST_THRESHOLD", 5),

		// Scanner scope
		ExcludedHosts:  splitAndTrim(getenv("GMAP_EXCLUDED_HOSTS", "")),
		MonitoredTools: splitAndTrim(getenv("GMAP_MONITORED_TOOLS", "")),

		// Access restrictions
		AllowedHosts: splitAndTrim(getenv("GMAP_ALLOWED_HOSTS", "")),
		AllowedCIDRS: splitAndTrim(getenv("GMAP_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("GMAP_TRUST_PROXY", true),
	}

	if cfg.CacheBackend != "memory" && cfg.CacheBackend != "redis" {
		panic(fmt.Sprintf("❌ FATAL: GMAP_CACHE_BACKEND must be \"memory\" or \"redis\", got %q", cfg.CacheBackend))
	}
	if cfg.MaxRetries < 1 {
		panic(fmt.Sprintf("❌ FATAL: GMAP_MAX_RETRIES must be >= 1, got %d", cfg.MaxRetries))
	}
	if cfg.MaxConcurrentProbes < 1 {
		panic(fmt.Sprintf("❌ FATAL: GMAP_MAX_CONCURRENT_PROBES must be >= 1, got %d", cfg.MaxConcurrentProbes))
	}

	// Redis settings only matter for the redis backend.
	if cfg.EnableCaching && cfg.CacheBackend == "redis" {
		loadRedis(cfg)
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.RedisPassword = "***REDACTED***"
		if cfg.RedisUser != "" {
			cfgCopy.RedisUser = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

func loadRedis(cfg *Config) {
	cfg.RedisAddr = requireEnv("GMAP_REDIS_ADDR")
	cfg.RedisUser = getenv("GMAP_REDIS_USERNAME", "default")
	cfg.RedisPasswordRequired = mustBool("GMAP_REDIS_PASSWORD_REQUIRED", true)
	cfg.RedisPassword = getenv("GMAP_REDIS_PASSWORD", "")
	cfg.RedisDB = requireEnvInt("GMAP_REDIS_DB")
	cfg.RedisDT = mustDuration("GMAP_REDIS_DIAL_TIMEOUT", 5*time.Second)
	cfg.RedisRT = mustDuration("GMAP_REDIS_READ_TIMEOUT", 3*time.Second)
	cfg.RedisWT = mustDuration("GMAP_REDIS_WRITE_TIMEOUT", 3*time.Second)
	cfg.RedisMaxWait = mustDuration("GMAP_REDIS_MAX_WAIT", 10*time.Second)
	cfg.RedisPingTimeout = mustDuration("GMAP_REDIS_PING_TIMEOUT", 5*time.Second)
	cfg.RedisPoolSize = getenvInt("GMAP_REDIS_POOL_SIZE", 10)
	cfg.RedisConnectTimeout = mustDuration("GMAP_REDIS_CONNECT_TIMEOUT", 30*time.Second)
	cfg.RedisRetryInterval = mustDuration("GMAP_REDIS_RETRY_INTERVAL", 2*time.Second)

	if cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
		panic("❌ FATAL: GMAP_REDIS_PASSWORD is required when GMAP_REDIS_PASSWORD_REQUIRED=true")
	}
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func requireEnvInt(key string) int {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		panic(fmt.Sprintf("❌ FATAL: Invalid integer value for %s: %s", key, v))
	}
	return i
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getenvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
