package models

// Supply is a sellable inventory placement. The supply's name is its ID.
// BidderIDs keeps the registration order from the catalog; auctions
// enumerate bidders in this order.
type Supply struct {
	ID        string   `bson:"_id" json:"id"`
	BidderIDs []string `bson:"bidders" json:"bidders,omitempty"`
}
