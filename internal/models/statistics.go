package models

// BidderStatistics holds the per-bidder counters accumulated across
// auctions for one supply. All counters only ever grow.
type BidderStatistics struct {
	Wins         int64   `json:"wins"`
	TotalRevenue float64 `json:"total_revenue"`
	NoBids       int64   `json:"no_bids"`
	Timeouts     int64   `json:"timeouts"`
}

// SupplyStatistics is the aggregate view of one supply's traffic and
// auction outcomes.
type SupplyStatistics struct {
	TotalRequests     int64                        `json:"total_reqs"`
	RequestsByCountry map[string]int64             `json:"reqs_per_country"`
	Bidders           map[string]*BidderStatistics `json:"bidders"`
}

// NewSupplyStatistics returns an empty record with initialized maps.
func NewSupplyStatistics() *SupplyStatistics {
	return &SupplyStatistics{
		RequestsByCountry: make(map[string]int64),
		Bidders:           make(map[string]*BidderStatistics),
	}
}

// Bidder returns the stats entry for a bidder, creating it if missing.
func (s *SupplyStatistics) Bidder(id string) *BidderStatistics {
	b, ok := s.Bidders[id]
	if !ok {
		b = &BidderStatistics{}
		s.Bidders[id] = b
	}
	return b
}
