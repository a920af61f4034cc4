package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an account record in the identity store.
type User struct {
	ID       string `gorm:"primaryKey;type:uuid" json:"id"`
	Name     string `gorm:"not null" json:"name"`
	Email    string `gorm:"not null;uniqueIndex" json:"email"`
	Password string `gorm:"not null" json:"-"` // bcrypt hash

	// Filled from history_entries by the repository, oldest first.
	BorrowedHistory []string `gorm:"-" json:"borrowedHistory"`
	PurchasedItems  []string `gorm:"-" json:"purchasedItems"`

	CreatedAt time.Time `json:"createdAt"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// HistoryKind tells which history list an entry belongs to.
type HistoryKind string

const (
	HistoryBorrowed  HistoryKind = "borrowed"
	HistoryPurchased HistoryKind = "purchased"
)

// HistoryEntry is one append-only element of a user's borrow or purchase
// history. ItemID is a weak reference.
type HistoryEntry struct {
	ID        int64       `gorm:"primaryKey;autoIncrement"`
	UserID    string      `gorm:"not null;type:uuid;index"`
	ItemID    string      `gorm:"not null;type:uuid;index"`
	Kind      HistoryKind `gorm:"not null"`
	CreatedAt time.Time
}
