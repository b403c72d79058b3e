// Package datagen produces and loads the static catalog data the auction
// service runs against.
package datagen

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
)

var countries = []string{"US", "GB", "CA", "DE", "FR", "AU", "JP", "BR"}

var supplyNames = []string{
	"cnn_mobile", "forbes_desktop", "espn_app", "nytimes_web",
	"reddit_mobile", "twitter_feed", "youtube_preroll", "spotify_audio",
	"twitch_video", "instagram_stories", "tiktok_infeed", "linkedin_feed",
	"weather_app", "news_aggregator", "gaming_portal", "tech_blog",
	"finance_hub", "lifestyle_magazine", "sports_network", "music_streaming",
}

var bidderNames = []string{
	"google_dv360", "amazon_dsp", "thetradedesk", "xandr",
	"verizon_media", "criteo", "mediamath", "adobe_adcloud",
	"pubmatic", "magnite", "openx", "index_exchange",
	"sovrn", "appnexus", "rubicon", "smartadserver",
	"tribalfusion", "undertone", "pulsepoint", "conversant",
}

// Data is the catalog seed file layout: supplies map to their assigned
// bidder IDs, bidders carry their serving country.
type Data struct {
	Supplies map[string][]string   `json:"supplies"`
	Bidders  map[string]BidderData `json:"bidders"`
}

type BidderData struct {
	Country string `json:"country"`
}

// Result reports how many entities an operation touched.
type Result struct {
	SuppliesCount int
	BiddersCount  int
}

// Generate writes a catalog seed file with numSupplies supplies and
// numBidders bidders sampled from the fixed name pools. Each supply is
// assigned between 2 and all of the generated bidders.
func Generate(outputPath string, numSupplies, numBidders int) (*Result, error) {
	bidders := make(map[string]BidderData)
	for _, name := range sample(bidderNames, numBidders) {
		bidders[name] = BidderData{Country: countries[rand.IntN(len(countries))]}
	}

	bidderIDs := make([]string, 0, len(bidders))
	for id := range bidders {
		bidderIDs = append(bidderIDs, id)
	}

	supplies := make(map[string][]string)
	for _, name := range sample(supplyNames, numSupplies) {
		// each supply gets between 2 and all bidders
		numAssigned := len(bidderIDs)
		if numAssigned > 2 {
			numAssigned = 2 + rand.IntN(len(bidderIDs)-1)
		}
		supplies[name] = sample(bidderIDs, numAssigned)
	}

	data := Data{Supplies: supplies, Bidders: bidders}

	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	encoded, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(outputPath, encoded, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", outputPath, err)
	}

	return &Result{
		SuppliesCount: len(supplies),
		BiddersCount:  len(bidders),
	}, nil
}

// sample returns up to n distinct elements of pool in random order.
func sample(pool []string, n int) []string {
	if n > len(pool) {
		n = len(pool)
	}
	shuffled := make([]string, len(pool))
	copy(shuffled, pool)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled[:n]
}
