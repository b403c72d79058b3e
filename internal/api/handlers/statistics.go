package handlers

import (
	"net/http"

	"exchange-backend/internal/models"
	"exchange-backend/pkg/stats"

	"github.com/gin-gonic/gin"
)

type StatisticsHandler struct {
	aggregator *stats.Aggregator
}

func NewStatisticsHandler(aggregator *stats.Aggregator) *StatisticsHandler {
	return &StatisticsHandler{aggregator: aggregator}
}

// GetStatistics returns the per-supply aggregate view. An empty object is
// returned when nothing has been recorded yet.
func (h *StatisticsHandler) GetStatistics(c *gin.Context) {
	all := h.aggregator.GetAll(c.Request.Context())
	if all == nil {
		c.JSON(http.StatusOK, map[string]*models.SupplyStatistics{})
		return
	}
	c.JSON(http.StatusOK, all)
}
