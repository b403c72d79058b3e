package services

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"

	"exchange-backend/internal/config"
	"exchange-backend/internal/models"

	log "github.com/sirupsen/logrus"
)

var (
	ErrSupplyNotFound    = errors.New("supply not found")
	ErrNoEligibleBidders = errors.New("no eligible bidders found")
	ErrNoBidsReceived    = errors.New("no bids received - all bidders skipped or timed out")
)

// SupplyCatalog resolves supply existence and the eligible bidder set.
type SupplyCatalog interface {
	SupplyExists(ctx context.Context, supplyID string) (bool, error)
	EligibleBidders(ctx context.Context, supplyID, country string) ([]models.Bidder, error)
}

// ResultRecorder receives auction telemetry. Calls are best effort; the
// auction outcome never depends on them.
type ResultRecorder interface {
	RecordRequest(ctx context.Context, supplyID, country string)
	RecordAuctionResult(ctx context.Context, supplyID, winnerID string, price float64, noBidIDs, timeoutIDs []string)
}

// Rand is the source of auction randomness. *math/rand/v2.Rand satisfies
// it, so tests can inject a seeded or scripted source.
type Rand interface {
	IntN(n int) int
	Float64() float64
}

// systemRand delegates to the process-wide concurrency-safe source.
type systemRand struct{}

func (systemRand) IntN(n int) int   { return rand.IntN(n) }
func (systemRand) Float64() float64 { return rand.Float64() }

// AuctionService runs simulated auctions over the eligible bidder set.
//
// Bidders are enumerated in the supply's registration order; that order is
// also the tie-break (earliest-enumerated bidder wins on equal prices).
type AuctionService struct {
	catalog  SupplyCatalog
	recorder ResultRecorder
	cfg      config.AuctionConfig
	rng      Rand
	sleep    func(time.Duration)
}

func NewAuctionService(catalog SupplyCatalog, recorder ResultRecorder, cfg config.AuctionConfig) *AuctionService {
	return &AuctionService{
		catalog:  catalog,
		recorder: recorder,
		cfg:      cfg,
		rng:      systemRand{},
		sleep:    time.Sleep,
	}
}

// SetRand replaces the randomness source, for reproducible tests.
func (s *AuctionService) SetRand(rng Rand) {
	s.rng = rng
}

// SetSleep replaces the latency delay, for tests that must not block.
func (s *AuctionService) SetSleep(sleep func(time.Duration)) {
	s.sleep = sleep
}

// RunAuction simulates one auction for a supply and country under the
// tmax deadline (milliseconds; 0 means the configured default).
//
// The incoming request is recorded before any validation, so rejected
// auctions still count. Each eligible bidder draws a response latency
// uniformly over [0, latencyMultiplier*tmax]; latencies above tmax mark
// the bidder timed out without delaying the auction, otherwise the
// auction waits out the latency, then the bidder either declines
// (NO_BID_PROBABILITY) or bids a uniform price in [MinBidPrice,
// MaxBidPrice] rounded to cents. The loop always completes; the deadline
// never cancels the request itself.
func (s *AuctionService) RunAuction(ctx context.Context, supplyID, country string, tmaxMs int) (*models.AuctionResult, error) {
	if tmaxMs <= 0 {
		tmaxMs = s.cfg.DefaultTmaxMs
	}

	s.recorder.RecordRequest(ctx, supplyID, country)

	exists, err := s.catalog.SupplyExists(ctx, supplyID)
	if err != nil {
		return nil, err
	}
	if !exists {
		log.WithField("supply_id", supplyID).Error("Supply not found")
		return nil, ErrSupplyNotFound
	}

	eligible, err := s.catalog.EligibleBidders(ctx, supplyID, country)
	if err != nil {
		return nil, err
	}
	if len(eligible) == 0 {
		log.WithFields(log.Fields{
			"supply_id": supplyID,
			"country":   country,
		}).Warn("No eligible bidders")
		return nil, ErrNoEligibleBidders
	}

	auctionLog := log.WithFields(log.Fields{
		"supply_id": supplyID,
		"country":   country,
		"tmax_ms":   tmaxMs,
	})
	auctionLog.Info("Auction started")

	bids := make([]models.Bid, 0, len(eligible))
	var noBidIDs, timeoutIDs []string

	for _, bidder := range eligible {
		// latency draw is inclusive of 1.5*tmax
		latencyMs := s.rng.IntN(int(float64(tmaxMs)*s.cfg.LatencyMultiplier) + 1)

		if latencyMs > tmaxMs {
			auctionLog.WithFields(log.Fields{
				"bidder_id":  bidder.ID,
				"latency_ms": latencyMs,
			}).Warn("Bidder timed out")
			timeoutIDs = append(timeoutIDs, bidder.ID)
			continue
		}

		if latencyMs > 0 {
			s.sleep(time.Duration(latencyMs) * time.Millisecond)
		}

		if s.rng.Float64() < s.cfg.NoBidProbability {
			auctionLog.WithField("bidder_id", bidder.ID).Info("Bidder declined to bid")
			noBidIDs = append(noBidIDs, bidder.ID)
			continue
		}

		price := s.drawPrice()
		bids = append(bids, models.Bid{BidderID: bidder.ID, Price: price})
		auctionLog.WithFields(log.Fields{
			"bidder_id": bidder.ID,
			"price":     price,
		}).Info("Bid received")
	}

	if len(bids) == 0 {
		auctionLog.WithFields(log.Fields{
			"no_bids":  len(noBidIDs),
			"timeouts": len(timeoutIDs),
		}).Warn("All bidders skipped")
		s.recorder.RecordAuctionResult(ctx, supplyID, "", 0.0, noBidIDs, timeoutIDs)
		return nil, ErrNoBidsReceived
	}

	// strict comparison keeps the earliest-enumerated bidder on ties
	winner := bids[0]
	for _, bid := range bids[1:] {
		if bid.Price > winner.Price {
			winner = bid
		}
	}

	auctionLog.WithFields(log.Fields{
		"winner_id": winner.BidderID,
		"price":     winner.Price,
		"bids":      len(bids),
	}).Info("Auction completed")

	s.recorder.RecordAuctionResult(ctx, supplyID, winner.BidderID, winner.Price, noBidIDs, timeoutIDs)

	return &models.AuctionResult{Winner: winner.BidderID, Price: winner.Price}, nil
}

// drawPrice returns a uniform price in [MinBidPrice, MaxBidPrice] rounded
// to two decimal places.
func (s *AuctionService) drawPrice() float64 {
	price := s.cfg.MinBidPrice + s.rng.Float64()*(s.cfg.MaxBidPrice-s.cfg.MinBidPrice)
	return math.Round(price*100) / 100
}
