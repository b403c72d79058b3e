package main

import (
	"exchange-backend/internal/api/routes"
	"exchange-backend/internal/config"
	"exchange-backend/pkg/database"
	"exchange-backend/pkg/redis"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Load()

	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	db, err := database.Connect(cfg.MongoURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Disconnect(db.Client())

	redisClient := redis.NewClient(cfg.Redis)
	defer redisClient.Close()

	if status := redisClient.HealthCheck(); status.IsConnected {
		log.Infof("Redis connected at %s", status.ConnectionInfo)
	} else {
		log.Warnf("Redis connection failed: %s (rate limiting will fail closed)", status.Error)
	}

	router := gin.Default()

	corsConfig := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
		corsConfig.AllowCredentials = true
	}
	router.Use(cors.New(corsConfig))

	routes.SetupRoutes(router, db, redisClient, cfg)

	log.Infof("Server starting on port %s", cfg.Port)
	log.Fatal(router.Run(":" + cfg.Port))
}
