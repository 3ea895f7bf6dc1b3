package deps

import (
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/newsstand/internal/identity"
	"github.com/MrSnakeDoc/newsstand/internal/index"
	"github.com/MrSnakeDoc/newsstand/internal/library"
	"github.com/MrSnakeDoc/newsstand/internal/logger"
	"github.com/MrSnakeDoc/newsstand/internal/news"
	"github.com/MrSnakeDoc/newsstand/internal/sources/catalog"
	redisstore "github.com/MrSnakeDoc/newsstand/internal/store/redis"
)

// Deps carries everything handlers need, wired once in app.New.
type Deps struct {
	Logger    logger.Logger
	StartTime time.Time
	Version   string
	Commit    string
	BuildDate string
	GoVersion string
	TimeNow   func() time.Time // for testing, defaults to time.Now

	RedisClient *redis.Client
	Store       *redisstore.Store
	News        *news.Client
	Catalog     *catalog.Catalog
	Index       *index.MemoryIndex
	Libraries   *library.Manager
	Identity    *identity.Service

	TrustProxy    bool          // true if running behind a trusted reverse proxy
	CORSOrigins   []string      // allowed CORS origins
	CatalogReload chan struct{} // channel to trigger manual catalog reload (nil if disabled)
}
