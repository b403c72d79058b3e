package models

// Bid is a single bidder's submitted price within one auction.
type Bid struct {
	BidderID string  `json:"bidder_id"`
	Price    float64 `json:"price"`
}

// AuctionResult is the outcome returned to the caller. It is ephemeral;
// only the aggregate statistics are persisted.
type AuctionResult struct {
	Winner string  `json:"winner"`
	Price  float64 `json:"price"`
}
