package stats

import (
	"context"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis, func()) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	err = client.Ping(context.Background()).Err()
	require.NoError(t, err)

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return client, mr, cleanup
}

func TestAggregator_GetAll_Empty(t *testing.T) {
	client, _, cleanup := setupTestRedis(t)
	defer cleanup()

	agg := NewAggregator(client)

	assert.Nil(t, agg.GetAll(context.Background()), "no recorded data should read back as nil")
}

func TestAggregator_RecordRequest(t *testing.T) {
	client, _, cleanup := setupTestRedis(t)
	defer cleanup()

	agg := NewAggregator(client)
	ctx := context.Background()

	agg.RecordRequest(ctx, "supply1", "US")
	agg.RecordRequest(ctx, "supply1", "US")
	agg.RecordRequest(ctx, "supply1", "GB")
	agg.RecordRequest(ctx, "supply2", "DE")

	all := agg.GetAll(ctx)
	require.Len(t, all, 2)

	s1 := all["supply1"]
	require.NotNil(t, s1)
	assert.Equal(t, int64(3), s1.TotalRequests)
	assert.Equal(t, int64(2), s1.RequestsByCountry["US"])
	assert.Equal(t, int64(1), s1.RequestsByCountry["GB"])

	s2 := all["supply2"]
	require.NotNil(t, s2)
	assert.Equal(t, int64(1), s2.TotalRequests)
	assert.Equal(t, int64(1), s2.RequestsByCountry["DE"])
}

func TestAggregator_RecordAuctionResult(t *testing.T) {
	client, _, cleanup := setupTestRedis(t)
	defer cleanup()

	agg := NewAggregator(client)
	ctx := context.Background()

	agg.RecordAuctionResult(ctx, "supply1", "bidder2", 0.85,
		[]string{"bidder1"}, []string{"bidder3"})

	all := agg.GetAll(ctx)
	require.NotNil(t, all)
	s1 := all["supply1"]
	require.NotNil(t, s1)

	winner := s1.Bidders["bidder2"]
	require.NotNil(t, winner)
	assert.Equal(t, int64(1), winner.Wins)
	assert.InDelta(t, 0.85, winner.TotalRevenue, 0.001)

	assert.Equal(t, int64(1), s1.Bidders["bidder1"].NoBids)
	assert.Equal(t, int64(1), s1.Bidders["bidder3"].Timeouts)
}

func TestAggregator_RecordAuctionResult_NoWinner(t *testing.T) {
	client, _, cleanup := setupTestRedis(t)
	defer cleanup()

	agg := NewAggregator(client)
	ctx := context.Background()

	// all bidders skipped: empty winner, zero price, lists still counted
	agg.RecordAuctionResult(ctx, "supply1", "", 0.0,
		[]string{"bidder1", "bidder2"}, []string{"bidder3"})

	all := agg.GetAll(ctx)
	require.NotNil(t, all)
	s1 := all["supply1"]
	require.NotNil(t, s1)

	assert.Equal(t, int64(1), s1.Bidders["bidder1"].NoBids)
	assert.Equal(t, int64(1), s1.Bidders["bidder2"].NoBids)
	assert.Equal(t, int64(1), s1.Bidders["bidder3"].Timeouts)
	for _, b := range s1.Bidders {
		assert.Zero(t, b.Wins)
		assert.Zero(t, b.TotalRevenue)
	}
}

func TestAggregator_RevenueAccumulation(t *testing.T) {
	client, _, cleanup := setupTestRedis(t)
	defer cleanup()

	agg := NewAggregator(client)
	ctx := context.Background()

	for _, price := range []float64{0.33, 0.27, 0.15} {
		agg.RecordAuctionResult(ctx, "supply1", "bidder1", price, nil, nil)
	}

	all := agg.GetAll(ctx)
	require.NotNil(t, all)
	b := all["supply1"].Bidders["bidder1"]
	require.NotNil(t, b)
	assert.Equal(t, int64(3), b.Wins)
	assert.InDelta(t, 0.75, b.TotalRevenue, 0.001)
}

func TestAggregator_ConcurrentWrites(t *testing.T) {
	client, _, cleanup := setupTestRedis(t)
	defer cleanup()

	agg := NewAggregator(client)
	ctx := context.Background()

	const writers = 8
	const perWriter = 25

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWriter; j++ {
				agg.RecordRequest(ctx, "supply1", "US")
			}
		}()
	}
	wg.Wait()

	all := agg.GetAll(ctx)
	require.NotNil(t, all)
	assert.Equal(t, int64(writers*perWriter), all["supply1"].TotalRequests,
		"no increment may be lost under concurrent writers")
}

func TestAggregator_SwallowsStoreErrors(t *testing.T) {
	client, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	agg := NewAggregator(client)
	ctx := context.Background()

	mr.Close()

	// none of these may panic or propagate
	agg.RecordRequest(ctx, "supply1", "US")
	agg.RecordAuctionResult(ctx, "supply1", "bidder1", 0.5, nil, nil)
	assert.Nil(t, agg.GetAll(ctx))
}

func TestParseSupplyHash(t *testing.T) {
	fields := map[string]string{
		"total_reqs":                 "15",
		"country:US":                 "10",
		"country:GB":                 "5",
		"bidder:pulsepoint:wins":     "3",
		"bidder:pulsepoint:revenue":  "1.25",
		"bidder:pulsepoint:no_bids":  "5",
		"bidder:pulsepoint:timeouts": "2",
		"bidder:rubicon:wins":        "2",
		"bidder:rubicon:revenue":     "0.80",
	}

	record := parseSupplyHash(fields)

	assert.Equal(t, int64(15), record.TotalRequests)
	assert.Equal(t, int64(10), record.RequestsByCountry["US"])
	assert.Equal(t, int64(5), record.RequestsByCountry["GB"])

	pp := record.Bidders["pulsepoint"]
	require.NotNil(t, pp)
	assert.Equal(t, int64(3), pp.Wins)
	assert.InDelta(t, 1.25, pp.TotalRevenue, 0.001)
	assert.Equal(t, int64(5), pp.NoBids)
	assert.Equal(t, int64(2), pp.Timeouts)

	rb := record.Bidders["rubicon"]
	require.NotNil(t, rb)
	assert.Equal(t, int64(2), rb.Wins)
	assert.InDelta(t, 0.80, rb.TotalRevenue, 0.001)
	assert.Zero(t, rb.NoBids)
}
