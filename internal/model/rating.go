package model

import (
	"fmt"
	"math"
	"time"
)

const (
	MinStars = 1
	MaxStars = 5
)

// Rating left by a borrower or purchaser. At most one per (item, user).
type Rating struct {
	ID     int64  `gorm:"primaryKey;autoIncrement" json:"-"`
	ItemID string `gorm:"not null;type:uuid;uniqueIndex:idx_rating_item_user" json:"-"`
	UserID string `gorm:"not null;type:uuid;uniqueIndex:idx_rating_item_user" json:"user"`
	// Name is the author's name at rating time.
	Name    string `gorm:"not null" json:"name"`
	Stars   int    `gorm:"not null" json:"stars"`
	Comment string `json:"comment,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// ValidStars reports whether stars is inside [MinStars, MaxStars].
func ValidStars(stars int) bool { return stars >= MinStars && stars <= MaxStars }

// RatingSummary is the average of an item's ratings.
type RatingSummary struct {
	Average float64
	Count   int
}

// Summarize computes sum(stars)/count over ratings.
func Summarize(ratings []Rating) RatingSummary {
	if len(ratings) == 0 {
		return RatingSummary{}
	}
	sum := 0
	for _, r := range ratings {
		sum += r.Stars
	}
	return RatingSummary{Average: float64(sum) / float64(len(ratings)), Count: len(ratings)}
}

// Stars is the average rounded to the nearest whole star.
func (s RatingSummary) Stars() int {
	return int(math.Round(s.Average))
}

// Glyphs renders the rounded average as filled/empty stars.
func (s RatingSummary) Glyphs() string {
	n := s.Stars()
	out := make([]rune, 0, MaxStars)
	for i := 1; i <= MaxStars; i++ {
		if i <= n {
			out = append(out, '★')
		} else {
			out = append(out, '☆')
		}
	}
	return string(out)
}

func (s RatingSummary) String() string {
	if s.Count == 0 {
		return "No ratings"
	}
	return fmt.Sprintf("%.1f (%d)", s.Average, s.Count)
}
