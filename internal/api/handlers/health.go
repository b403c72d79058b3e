package handlers

import (
	"net/http"
	"time"

	"exchange-backend/pkg/database"
	"exchange-backend/pkg/redis"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
)

type HealthHandler struct {
	db          *mongo.Database
	redisClient *redis.Client
}

type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Services  map[string]interface{} `json:"services"`
}

func NewHealthHandler(db *mongo.Database, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{
		db:          db,
		redisClient: redisClient,
	}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	response := HealthResponse{
		Timestamp: time.Now(),
		Services:  make(map[string]interface{}),
	}

	healthy := true

	mongoStatus := map[string]interface{}{"healthy": true}
	if err := database.Health(h.db); err != nil {
		mongoStatus["healthy"] = false
		mongoStatus["error"] = err.Error()
		healthy = false
	}
	response.Services["mongodb"] = mongoStatus

	redisStatus := h.redisClient.HealthCheck()
	response.Services["redis"] = redisStatus
	if !redisStatus.IsConnected {
		healthy = false
	}

	if healthy {
		response.Status = "healthy"
		c.JSON(http.StatusOK, response)
		return
	}
	response.Status = "unhealthy"
	c.JSON(http.StatusServiceUnavailable, response)
}
