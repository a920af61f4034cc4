package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category of a listed item.
type Category string

const (
	CategoryTools       Category = "Tools"
	CategoryCamping     Category = "Camping"
	CategoryKitchen     Category = "Kitchen"
	CategoryElectronics Category = "Electronics"
	CategoryOther       Category = "Other"
)

// Categories lists every accepted category in display order.
var Categories = []Category{CategoryTools, CategoryCamping, CategoryKitchen, CategoryElectronics, CategoryOther}

// Valid reports whether c is one of Categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ListingType is fixed when the item is listed.
type ListingType string

const (
	ListingBorrow ListingType = "borrow"
	ListingSale   ListingType = "sale"
)

func (t ListingType) Valid() bool { return t == ListingBorrow || t == ListingSale }

// Status of an item. Available is initial, Sold is terminal, Borrowed has no
// outgoing transition.
type Status string

const (
	StatusAvailable Status = "Available"
	StatusBorrowed  Status = "Borrowed"
	StatusSold      Status = "Sold"
)

// Item is a listing in the catalog.
type Item struct {
	ID          string      `gorm:"primaryKey;type:uuid" json:"id"`
	Name        string      `gorm:"not null" json:"name"`
	Description string      `gorm:"not null" json:"description"`
	Category    Category    `gorm:"not null;index" json:"category"`
	ImageURL    *string     `json:"imageUrl"`
	ListingType ListingType `gorm:"not null" json:"listingType"`
	PricePerDay float64     `gorm:"not null" json:"pricePerDay"`
	SalePrice   float64     `gorm:"not null" json:"salePrice"`
	Status      Status      `gorm:"not null;index" json:"status"`

	// OwnerName is a snapshot taken at listing time and is not refreshed
	// if the owner later renames.
	OwnerID    string  `gorm:"not null;index" json:"owner"`
	OwnerName  string  `gorm:"not null" json:"ownerName"`
	BorrowerID *string `json:"borrower"`

	Ratings []Rating `gorm:"foreignKey:ItemID" json:"ratings"`

	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}

// BeforeCreate assigns a UUID when the caller did not.
func (it *Item) BeforeCreate(*gorm.DB) error {
	if it.ID == "" {
		it.ID = uuid.NewString()
	}
	return nil
}

// RatingSummary is derived from Ratings and never persisted.
func (it *Item) RatingSummary() RatingSummary {
	return Summarize(it.Ratings)
}

// RatedBy reports whether userID already left a rating on the item.
func (it *Item) RatedBy(userID string) bool {
	for _, r := range it.Ratings {
		if r.UserID == userID {
			return true
		}
	}
	return false
}

// AfterFind keeps "ratings" a JSON array for items without ratings.
func (it *Item) AfterFind(*gorm.DB) error {
	if it.Ratings == nil {
		it.Ratings = []Rating{}
	}
	return nil
}
