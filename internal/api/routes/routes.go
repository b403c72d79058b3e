package routes

import (
	"exchange-backend/internal/api/handlers"
	"exchange-backend/internal/api/middleware"
	"exchange-backend/internal/config"
	"exchange-backend/internal/repository"
	"exchange-backend/internal/services"
	"exchange-backend/pkg/ratelimit"
	redispkg "exchange-backend/pkg/redis"
	"exchange-backend/pkg/stats"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
)

func SetupRoutes(router *gin.Engine, db *mongo.Database, redisClient *redispkg.Client, cfg *config.Config) {
	// Catalog repositories
	supplyRepo := repository.NewSupplyRepository(db)
	bidderRepo := repository.NewBidderRepository(db)
	catalog := services.NewCatalog(supplyRepo, bidderRepo)

	// Shared singletons: one limiter and one aggregator per process
	aggregator := stats.NewAggregator(redisClient.GetClient())
	limiter := newLimiter(redisClient, cfg.RateLimit)

	auctionService := services.NewAuctionService(catalog, aggregator, cfg.Auction)

	bidHandler := handlers.NewBidHandler(auctionService, limiter, cfg.RateLimit.MaxRequests)
	statsHandler := handlers.NewStatisticsHandler(aggregator)
	supplyHandler := handlers.NewSupplyHandler(supplyRepo)
	healthHandler := handlers.NewHealthHandler(db, redisClient)

	router.Use(middleware.RequestLogger())

	api := router.Group("/api/v1")
	{
		api.POST("/bid", bidHandler.Bid)
		api.GET("/stat", statsHandler.GetStatistics)
		api.GET("/supplies", supplyHandler.GetSupplies)
		api.GET("/health", healthHandler.HealthCheck)
	}
}

func newLimiter(redisClient *redispkg.Client, cfg config.RateLimitConfig) ratelimit.Limiter {
	limiterCfg := &ratelimit.Config{
		MaxRequests: cfg.MaxRequests,
		Window:      cfg.Window,
		KeyPrefix:   "rate_limit:",
	}
	if cfg.Backend == "memory" {
		return ratelimit.NewMemoryLimiter(limiterCfg)
	}
	return ratelimit.NewRedisLimiter(redisClient.GetClient(), limiterCfg)
}
