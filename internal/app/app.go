package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/gmapscan/internal/cache"
	"github.com/MrSnakeDoc/gmapscan/internal/config"
	"github.com/MrSnakeDoc/gmapscan/internal/finding"
	"github.com/MrSnakeDoc/gmapscan/internal/httpserver"
	"github.com/MrSnakeDoc/gmapscan/internal/httpserver/deps"
	"github.com/MrSnakeDoc/gmapscan/internal/logger"
	"github.com/MrSnakeDoc/gmapscan/internal/pricing"
	"github.com/MrSnakeDoc/gmapscan/internal/probe"
	"github.com/MrSnakeDoc/gmapscan/internal/redis"
	"github.com/MrSnakeDoc/gmapscan/internal/scanner"
	"github.com/MrSnakeDoc/gmapscan/internal/scheduler"
	redisstore "github.com/MrSnakeDoc/gmapscan/internal/store/redis"
	"github.com/MrSnakeDoc/gmapscan/internal/transport"
	"github.com/MrSnakeDoc/gmapscan/internal/validator"
	"github.com/MrSnakeDoc/gmapscan/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	memCache    *cache.Memory
	reloader    *scheduler.PricingReloader
	sweeper     *scheduler.CacheSweeper
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Pricing
	table := pricing.NewTable()
	calc := pricing.NewCalculator(table)

	// Result cache (optional, memory or redis)
	var (
		resultCache validator.ResultCache
		redisClient *goredis.Client
		memCache    *cache.Memory
		sweeper     *scheduler.CacheSweeper
	)
	if cfg.EnableCaching {
		switch cfg.CacheBackend {
		case "redis":
			// Fail fast if redis is unavailable
			loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
			client, err := redis.New(redis.ConnectOptions{
				Addr:           cfg.RedisAddr,
				User:           cfg.RedisUser,
				Password:       cfg.RedisPassword,
				RedisDB:        cfg.RedisDB,
				DialTimeout:    cfg.RedisDT,
				ReadTimeout:    cfg.RedisRT,
				WriteTimeout:   cfg.RedisWT,
				PoolSize:       cfg.RedisPoolSize,
				ConnectTimeout: cfg.RedisConnectTimeout,
				RetryInterval:  cfg.RedisRetryInterval,
				MaxWait:        cfg.RedisMaxWait,
				PingTimeout:    cfg.RedisPingTimeout,
			}, loggerClient)
			if err != nil {
				loggerClient.Errorf("Failed to connect to Redis: %v", err)
				os.Exit(1)
			}
			loggerClient.Info("Redis initialized successfully")
			redisClient = client
			resultCache = redisstore.NewStore(client, cfg.CacheTTL)
		default:
			memCache = cache.NewMemory(cfg.CacheTTL)
			resultCache = memCache
			sweeper = scheduler.NewCacheSweeper(memCache, loggerClient, cfg.CacheSweepInterval)
		}
	} else {
		loggerClient.Info("result caching disabled, every request re-probes")
	}

	// Probe pipeline: retrying transport -> prober -> validator
	retrying := transport.NewRetrying(
		&http.Client{Timeout: cfg.RequestTimeout},
		cfg.MaxRetries,
		cfg.RetryBaseDelay,
		cfg.RetryMaxDelay,
		loggerClient,
	)
	prober := probe.New(retrying, table, cfg.RequestTimeout, loggerClient)
	keyValidator := validator.New(prober, resultCache, cfg.MaxConcurrentProbes, cfg.ValidationTimeout, loggerClient)

	// Findings + scanner shell
	assembler := finding.New(calc)
	scan := scanner.New(
		keyValidator,
		assembler,
		loggerClient,
		cfg.CostThreshold,
		cfg.ExcludedHosts,
		cfg.MonitoredTools,
	)

	// Pricing overrides reloader (only when a file is configured)
	var (
		reloader      *scheduler.PricingReloader
		reloadTrigger chan struct{}
	)
	if cfg.PricingFile != "" {
		reloadTrigger = make(chan struct{}, 1)
		reloader = scheduler.NewPricingReloader(
			cfg.PricingFile,
			table,
			loggerClient,
			cfg.PricingReloadInterval,
			reloadTrigger,
		)
	} else {
		loggerClient.Info("no pricing overrides file configured, using default prices")
	}

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:               loggerClient,
		StartTime:            time.Now(),
		Version:              version.Version,
		Commit:               version.Commit,
		BuildDate:            version.BuildDate,
		GoVersion:            version.GoVersion,
		TimeNow:              time.Now,
		AllowedHosts:         cfg.AllowedHosts,
		AllowedCIDRS:         cfg.AllowedCIDRS,
		TrustProxy:           cfg.TrustProxy,
		Scanner:              scan,
		PricingTable:         table,
		RedisClient:          redisClient,
		MemoryCache:          memCache,
		CacheBackend:         cfg.CacheBackend,
		CachingEnabled:       cfg.EnableCaching,
		PricingReloadTrigger: reloadTrigger,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		redisClient: redisClient,
		memCache:    memCache,
		reloader:    reloader,
		sweeper:     sweeper,
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting gmapscan v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("gmapscan %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start pricing reloader (loads overrides and starts periodic refresh)
	if a.reloader != nil {
		if err := a.reloader.Start(ctx); err != nil {
			return fmt.Errorf("failed to start pricing reloader: %w", err)
		}
		a.logger.Info("pricing reloader started",
			logger.Duration("interval", a.cfg.PricingReloadInterval))
	}

	// Start cache sweeper (memory backend only)
	if a.sweeper != nil {
		if err := a.sweeper.Start(ctx); err != nil {
			return fmt.Errorf("failed to start cache sweeper: %w", err)
		}
		a.logger.Info("cache sweeper started",
			logger.Duration("interval", a.cfg.CacheSweepInterval))
	}

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	// Stop background schedulers; in-flight validations are abandoned by
	// context cancellation and their partial results never cached.
	if a.reloader != nil {
		a.reloader.Stop()
	}
	if a.sweeper != nil {
		a.sweeper.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}

	a.logger.Info("✅ gmapscan stopped cleanly")
	return nil
}
