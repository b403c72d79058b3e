package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"exchange-backend/internal/config"
	"exchange-backend/internal/models"
	"exchange-backend/internal/services"
	"exchange-backend/pkg/ratelimit"
	"exchange-backend/pkg/stats"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCatalog struct {
	supplies map[string][]models.Bidder
}

func (s *stubCatalog) SupplyExists(_ context.Context, supplyID string) (bool, error) {
	_, ok := s.supplies[supplyID]
	return ok, nil
}

func (s *stubCatalog) EligibleBidders(_ context.Context, supplyID, country string) ([]models.Bidder, error) {
	var eligible []models.Bidder
	for _, b := range s.supplies[supplyID] {
		if b.Country == country {
			eligible = append(eligible, b)
		}
	}
	return eligible, nil
}

func setupBidRouter(t *testing.T) (*gin.Engine, *miniredis.Miniredis, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	catalog := &stubCatalog{supplies: map[string][]models.Bidder{
		"supply1": {
			{ID: "bidder1", Country: "US"},
			{ID: "bidder2", Country: "US"},
		},
	}}
	aggregator := stats.NewAggregator(client)

	auctionCfg := config.AuctionConfig{
		NoBidProbability:  0.0, // every responding bidder bids
		MinBidPrice:       0.01,
		MaxBidPrice:       1.00,
		DefaultTmaxMs:     200,
		LatencyMultiplier: 0.0, // zero latency: nobody times out, nobody sleeps
	}
	auctionService := services.NewAuctionService(catalog, aggregator, auctionCfg)
	auctionService.SetSleep(func(time.Duration) {})

	limiter := ratelimit.NewRedisLimiter(client, &ratelimit.Config{
		MaxRequests: 3,
		Window:      60 * time.Second,
		KeyPrefix:   "rate_limit:",
	})

	router := gin.New()
	handler := NewBidHandler(auctionService, limiter, 3)
	router.POST("/api/v1/bid", handler.Bid)

	cleanup := func() {
		client.Close()
		mr.Close()
	}
	return router, mr, cleanup
}

func postBid(router *gin.Engine, body map[string]interface{}) *httptest.ResponseRecorder {
	encoded, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bid", bytes.NewReader(encoded))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestBidHandler_Success(t *testing.T) {
	router, _, cleanup := setupBidRouter(t)
	defer cleanup()

	w := postBid(router, map[string]interface{}{
		"supply_id": "supply1",
		"ip":        "1.2.3.4",
		"country":   "US",
		"tmax":      200,
	})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var result models.AuctionResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Contains(t, []string{"bidder1", "bidder2"}, result.Winner)
	assert.GreaterOrEqual(t, result.Price, 0.01)
	assert.LessOrEqual(t, result.Price, 1.00)
}

func TestBidHandler_RateLimited(t *testing.T) {
	router, _, cleanup := setupBidRouter(t)
	defer cleanup()

	body := map[string]interface{}{
		"supply_id": "supply1",
		"ip":        "5.6.7.8",
		"country":   "US",
	}

	for i := 0; i < 3; i++ {
		w := postBid(router, body)
		assert.Equal(t, http.StatusOK, w.Code, "request %d should pass the limiter", i+1)
	}

	w := postBid(router, body)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "Rate limit exceeded")
}

func TestBidHandler_RateLimitPerIP(t *testing.T) {
	router, _, cleanup := setupBidRouter(t)
	defer cleanup()

	for i := 0; i < 3; i++ {
		postBid(router, map[string]interface{}{
			"supply_id": "supply1", "ip": "9.9.9.9", "country": "US",
		})
	}

	// a different IP still has its full quota
	w := postBid(router, map[string]interface{}{
		"supply_id": "supply1", "ip": "8.8.8.8", "country": "US",
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBidHandler_SupplyNotFound(t *testing.T) {
	router, _, cleanup := setupBidRouter(t)
	defer cleanup()

	w := postBid(router, map[string]interface{}{
		"supply_id": "missing",
		"ip":        "1.2.3.4",
		"country":   "US",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "supply not found")
}

func TestBidHandler_NoEligibleBidders(t *testing.T) {
	router, _, cleanup := setupBidRouter(t)
	defer cleanup()

	w := postBid(router, map[string]interface{}{
		"supply_id": "supply1",
		"ip":        "1.2.3.4",
		"country":   "JP",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "no eligible bidders")
}

func TestBidHandler_Validation(t *testing.T) {
	router, _, cleanup := setupBidRouter(t)
	defer cleanup()

	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{"missing supply", map[string]interface{}{"ip": "1.2.3.4", "country": "US"}},
		{"missing ip", map[string]interface{}{"supply_id": "supply1", "country": "US"}},
		{"bad country", map[string]interface{}{"supply_id": "supply1", "ip": "1.2.3.4", "country": "usa"}},
		{"tmax too large", map[string]interface{}{"supply_id": "supply1", "ip": "1.2.3.4", "country": "US", "tmax": 9000}},
		{"tmax negative", map[string]interface{}{"supply_id": "supply1", "ip": "1.2.3.4", "country": "US", "tmax": -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postBid(router, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestBidHandler_FailedAuctionStillCounted(t *testing.T) {
	router, mr, cleanup := setupBidRouter(t)
	defer cleanup()

	postBid(router, map[string]interface{}{
		"supply_id": "missing", "ip": "1.2.3.4", "country": "US",
	})

	total := mr.HGet("stats:missing", "total_reqs")
	assert.Equal(t, "1", total, "rejected auctions still increment total_reqs")
}
