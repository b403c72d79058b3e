package models

// Bidder is a demand partner registered in the catalog. The bidder's name
// is its ID; Country is the two-letter code the bidder serves.
type Bidder struct {
	ID      string `bson:"_id" json:"id"`
	Country string `bson:"country" json:"country"`
}
