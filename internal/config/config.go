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

	// News API
	NewsAPIKey      string        // key for the upstream article source
	NewsBaseURL     string        // ex: https://newsapi.org/v2
	NewsTimeout     time.Duration // per-request timeout to the article source
	NewsCountry     string        // country for top headlines (ex: "us")
	FallbackEnabled bool          // serve sample articles when the source is down

	// Catalog
	CatalogFile            string        // path to categories.yaml (optional, empty = built-in catalog only)
	CatalogReloadInterval  time.Duration // interval to reload categories.yaml
	HeadlinesInterval      time.Duration // interval to warm the headlines cache
	HeadlinesTTL           time.Duration // TTL of cached headline pages
	SessionGCInterval      time.Duration // interval to evict idle libraries
	SessionMaxIdle         time.Duration // how long an unused library stays cached
	DisableHeadlinesWarmer bool          // skip the background headlines refresher

	// Identity
	JWTSecret     string        // HS256 signing secret
	TokenTTL      time.Duration // bearer token lifetime
	AdminEmail    string        // optional bootstrap admin account
	AdminPassword string        // optional bootstrap admin password

	// Redis
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
	RedisWarnThreshold    int           // warn after this many attempts

	CORSOrigins []string // allowed CORS origins (e.g. the SPA's URL)
	TrustProxy  bool     // true => trust X-Forwarded-For headers
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("NEWSSTAND_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("NEWSSTAND_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("NEWSSTAND_LOG_LEVEL", "info"),
		PrettyLog: mustBool("NEWSSTAND_PRETTY_LOG", true),

		// News API
		NewsAPIKey:      requireEnv("NEWSSTAND_NEWS_API_KEY"),
		NewsBaseURL:     getenv("NEWSSTAND_NEWS_BASE_URL", "https://newsapi.org/v2"),
		NewsTimeout:     mustDuration("NEWSSTAND_NEWS_TIMEOUT", 10*time.Second),
		NewsCountry:     getenv("NEWSSTAND_NEWS_COUNTRY", "us"),
		FallbackEnabled: mustBool("NEWSSTAND_NEWS_FALLBACK", true),

		// Catalog and background loops
		CatalogFile:            getenv("NEWSSTAND_CATALOG_FILE", ""),
		CatalogReloadInterval:  mustDuration("NEWSSTAND_CATALOG_RELOAD_INTERVAL", 24*time.Hour),
		HeadlinesInterval:      mustDuration("NEWSSTAND_HEADLINES_INTERVAL", 15*time.Minute),
		HeadlinesTTL:           mustDuration("NEWSSTAND_HEADLINES_TTL", 15*time.Minute),
		SessionGCInterval:      mustDuration("NEWSSTAND_SESSION_GC_INTERVAL", 10*time.Minute),
		SessionMaxIdle:         mustDuration("NEWSSTAND_SESSION_MAX_IDLE", 30*time.Minute),
		DisableHeadlinesWarmer: mustBool("NEWSSTAND_DISABLE_HEADLINES_WARMER", false),

		// Identity
		JWTSecret:     requireEnv("NEWSSTAND_JWT_SECRET"),
		TokenTTL:      mustDuration("NEWSSTAND_TOKEN_TTL", 24*time.Hour),
		AdminEmail:    getenv("NEWSSTAND_ADMIN_EMAIL", ""),
		AdminPassword: getenv("NEWSSTAND_ADMIN_PASSWORD", ""),

		// Redis settings
		RedisAddr:             requireEnv("NEWSSTAND_REDIS_ADDR"),
		RedisUser:             getenv("NEWSSTAND_REDIS_USERNAME", "default"),
		RedisPasswordRequired: mustBool("NEWSSTAND_REDIS_PASSWORD_REQUIRED", true),
		RedisPassword:         getenv("NEWSSTAND_REDIS_PASSWORD", ""),
		RedisDB:               getenvInt("NEWSSTAND_REDIS_DB", 0),
		RedisDT:               mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("REDIS_WARN_THRESHOLD", 3),

		// Access
		CORSOrigins: splitAndTrim(getenv("NEWSSTAND_CORS_ORIGINS", "")),
		TrustProxy:  mustBool("NEWSSTAND_TRUST_PROXY", true),
	}

	// Validate Redis password configuration
	if cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
		panic("❌ FATAL: NEWSSTAND_REDIS_PASSWORD is required when NEWSSTAND_REDIS_PASSWORD_REQUIRED=true")
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.RedisPassword = "***REDACTED***"
		cfgCopy.NewsAPIKey = "***REDACTED***"
		cfgCopy.JWTSecret = "***REDACTED***"
		cfgCopy.AdminPassword = "***REDACTED***"
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
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

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
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
