package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"makanloka-backend/config"
	"makanloka-backend/discovery"
	"makanloka-backend/handlers"
	"makanloka-backend/logger"
	"makanloka-backend/metrics"
	"makanloka-backend/middleware"
)

// Deps carries the wired collaborators the route tree needs. Indexed and
// Favorites are nil when their backing service is not configured.
type Deps struct {
	DB        *gorm.DB
	Log       logger.Logger
	Indexed   discovery.StoreSearcher
	Favorites discovery.FavoritesProvider
}

func SetupRoutes(r *gin.Engine, deps Deps) {
	settings := discovery.NewCachedSettings(discovery.NewDBSettings(deps.DB), time.Minute)
	compiler := discovery.NewCompiler(settings, deps.Favorites, deps.Log)
	compiler.RefOffsetMinutes = config.PlatformGMTOffsetMinutes()
	history := discovery.NewDBHistoryRecorder(deps.DB, deps.Log)

	discoveryHandler := &handlers.DiscoveryHandler{
		DB:         deps.DB,
		Compiler:   compiler,
		Relational: discovery.NewRelationalStoreSearch(deps.DB, deps.Log),
		Indexed:    deps.Indexed,
		History:    history,
		Log:        deps.Log,
	}
	storeHandler := &handlers.StoreHandler{DB: deps.DB, History: history}

	limit, window := config.SearchRateLimit()
	searchLimiter := middleware.NewRateLimiter(limit, window, deps.Log)

	api := r.Group("/api")
	api.Use(middleware.OptionalAuth())
	{
		api.GET("/stores/search", searchLimiter.Middleware(), discoveryHandler.SearchStores)
		api.GET("/stores/:id", storeHandler.GetStore)
		api.GET("/categories", storeHandler.GetCategories)
		api.GET("/price-ranges", storeHandler.GetPriceRanges)
	}

	r.GET("/metrics", metrics.Handler())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
}
