package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/newsstand/internal/config"
	"github.com/MrSnakeDoc/newsstand/internal/httpserver"
	"github.com/MrSnakeDoc/newsstand/internal/httpserver/deps"
	"github.com/MrSnakeDoc/newsstand/internal/identity"
	"github.com/MrSnakeDoc/newsstand/internal/index"
	"github.com/MrSnakeDoc/newsstand/internal/library"
	"github.com/MrSnakeDoc/newsstand/internal/logger"
	"github.com/MrSnakeDoc/newsstand/internal/news"
	"github.com/MrSnakeDoc/newsstand/internal/redis"
	"github.com/MrSnakeDoc/newsstand/internal/scheduler"
	"github.com/MrSnakeDoc/newsstand/internal/sources/catalog"
	redisstore "github.com/MrSnakeDoc/newsstand/internal/store/redis"
	"github.com/MrSnakeDoc/newsstand/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	reloader    *scheduler.CatalogReloader
	refresher   *scheduler.HeadlinesRefresher
	sessionGC   *scheduler.SessionGC
	identity    *identity.Service
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Initialize Redis early - fail fast if unavailable
	loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
	redisClient, err := redis.New(redis.ConnectOptions{
		Addr:           cfg.RedisAddr,
		User:           cfg.RedisUser,
		Password:       cfg.RedisPassword,
		DB:             cfg.RedisDB,
		DialTimeout:    cfg.RedisDT,
		ReadTimeout:    cfg.RedisRT,
		WriteTimeout:   cfg.RedisWT,
		PoolSize:       cfg.RedisPoolSize,
		ConnectTimeout: cfg.RedisConnectTimeout,
		RetryInterval:  cfg.RedisRetryInterval,
		MaxWait:        cfg.RedisMaxWait,
		PingTimeout:    cfg.RedisPingTimeout,
		WarnThreshold:  cfg.RedisWarnThreshold,
	}, loggerClient)
	if err != nil {
		loggerClient.Errorf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	loggerClient.Info("Redis initialized successfully")

	store := redisstore.NewStore(redisClient)
	memIndex := index.NewMemoryIndex()

	// Category catalog starts with the built-in set; the reloader
	// swaps in the YAML file if one is configured.
	cat := catalog.NewCatalog()

	newsClient := news.NewClient(news.Config{
		APIKey:          cfg.NewsAPIKey,
		BaseURL:         cfg.NewsBaseURL,
		Timeout:         cfg.NewsTimeout,
		Country:         cfg.NewsCountry,
		FallbackEnabled: cfg.FallbackEnabled,
	}, loggerClient)

	libraries := library.NewManager(store, loggerClient)

	tokens := identity.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	identitySvc := identity.New(store, tokens, loggerClient)

	// Background loops
	var reloadTrigger chan struct{}
	var reloader *scheduler.CatalogReloader
	if cfg.CatalogFile != "" {
		reloadTrigger = make(chan struct{}, 1)
		reloader = scheduler.NewCatalogReloader(
			cfg.CatalogFile,
			cat,
			loggerClient,
			cfg.CatalogReloadInterval,
			reloadTrigger,
		)
	} else {
		loggerClient.Info("catalog file not configured, using built-in categories")
	}

	var refresher *scheduler.HeadlinesRefresher
	if !cfg.DisableHeadlinesWarmer {
		refresher = scheduler.NewHeadlinesRefresher(
			newsClient,
			cat,
			store,
			memIndex,
			loggerClient,
			cfg.HeadlinesInterval,
			cfg.HeadlinesTTL,
		)
	}

	sessionGC := scheduler.NewSessionGC(libraries, loggerClient, cfg.SessionGCInterval, cfg.SessionMaxIdle)

	d := deps.Deps{
		Logger:        loggerClient,
		StartTime:     time.Now(),
		Version:       version.Version,
		Commit:        version.Commit,
		BuildDate:     version.BuildDate,
		GoVersion:     version.GoVersion,
		TimeNow:       time.Now,
		RedisClient:   redisClient,
		Store:         store,
		News:          newsClient,
		Catalog:       cat,
		Index:         memIndex,
		Libraries:     libraries,
		Identity:      identitySvc,
		TrustProxy:    cfg.TrustProxy,
		CORSOrigins:   cfg.CORSOrigins,
		CatalogReload: reloadTrigger,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		redisClient: redisClient,
		reloader:    reloader,
		refresher:   refresher,
		sessionGC:   sessionGC,
		identity:    identitySvc,
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting Newsstand v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("Newsstand %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.identity.EnsureAdmin(ctx, a.cfg.AdminEmail, a.cfg.AdminPassword); err != nil {
		a.logger.Warnf("failed to bootstrap admin account: %v", err)
	}

	if a.reloader != nil {
		if err := a.reloader.Start(ctx); err != nil {
			return fmt.Errorf("failed to start catalog reloader: %w", err)
		}
		a.logger.Info("catalog reloader started",
			logger.Duration("interval", a.cfg.CatalogReloadInterval))
	}

	if a.refresher != nil {
		if err := a.refresher.Start(ctx); err != nil {
			return fmt.Errorf("failed to start headlines refresher: %w", err)
		}
		a.logger.Info("headlines refresher started",
			logger.Duration("interval", a.cfg.HeadlinesInterval))
	}

	if err := a.sessionGC.Start(ctx); err != nil {
		return fmt.Errorf("failed to start session gc: %w", err)
	}
	a.logger.Info("session gc started",
		logger.Duration("interval", a.cfg.SessionGCInterval))

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

	if a.reloader != nil {
		a.reloader.Stop()
	}
	if a.refresher != nil {
		a.refresher.Stop()
	}
	a.sessionGC.Stop()

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

	a.logger.Info("✅ Newsstand stopped cleanly")
	return nil
}
