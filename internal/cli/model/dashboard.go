package model

import "Neighborly/internal/model"

// Item and Rating are the server's wire representations.
type (
	Item   = model.Item
	Rating = model.Rating
)

// LenderDashboard is the caller's own items by status.
type LenderDashboard struct {
	Available []Item `json:"available"`
	Borrowed  []Item `json:"borrowed"`
	Sold      []Item `json:"sold"`
}

// CustomerDashboard is what the caller borrowed and bought.
type CustomerDashboard struct {
	Borrowed  []Item `json:"borrowed"`
	Purchased []Item `json:"purchased"`
}

// NewListing is the form sent when creating a listing.
type NewListing struct {
	Name        string
	Description string
	Category    string
	ListingType string
	Price       float64
	ImagePath   string // optional local file
}
