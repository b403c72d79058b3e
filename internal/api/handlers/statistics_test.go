package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"exchange-backend/internal/models"
	"exchange-backend/pkg/stats"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStatsRouter(t *testing.T) (*gin.Engine, *stats.Aggregator, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	aggregator := stats.NewAggregator(client)

	router := gin.New()
	router.GET("/api/v1/stat", NewStatisticsHandler(aggregator).GetStatistics)

	cleanup := func() {
		client.Close()
		mr.Close()
	}
	return router, aggregator, cleanup
}

func getStat(router *gin.Engine) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/stat", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestStatisticsHandler_Empty(t *testing.T) {
	router, _, cleanup := setupStatsRouter(t)
	defer cleanup()

	w := getStat(router)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "{}", w.Body.String())
}

func TestStatisticsHandler_TypedReadBack(t *testing.T) {
	router, aggregator, cleanup := setupStatsRouter(t)
	defer cleanup()

	ctx := context.Background()
	aggregator.RecordRequest(ctx, "supply1", "US")
	aggregator.RecordRequest(ctx, "supply1", "GB")
	aggregator.RecordAuctionResult(ctx, "supply1", "bidder2", 0.85,
		[]string{"bidder1"}, []string{"bidder3"})

	w := getStat(router)
	require.Equal(t, http.StatusOK, w.Code)

	var out map[string]*models.SupplyStatistics
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Contains(t, out, "supply1")

	s1 := out["supply1"]
	assert.Equal(t, int64(2), s1.TotalRequests)
	assert.Equal(t, int64(1), s1.RequestsByCountry["US"])
	assert.Equal(t, int64(1), s1.RequestsByCountry["GB"])
	assert.Equal(t, int64(1), s1.Bidders["bidder2"].Wins)
	assert.InDelta(t, 0.85, s1.Bidders["bidder2"].TotalRevenue, 0.001)
	assert.Equal(t, int64(1), s1.Bidders["bidder1"].NoBids)
	assert.Equal(t, int64(1), s1.Bidders["bidder3"].Timeouts)
}
