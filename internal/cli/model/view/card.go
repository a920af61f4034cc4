// Package view turns catalog items into terminal cards.
package view

import (
	"fmt"
	"strings"

	climodel "Neighborly/internal/cli/model"
	"Neighborly/internal/model"

	"github.com/charmbracelet/lipgloss"
)

// Card is one of MarketCard, CustomerCard or LenderCard.
type Card interface {
	item() climodel.Item
}

// MarketCard shows an Available item to a prospective borrower or buyer.
type MarketCard struct {
	Item     climodel.Item
	ViewerID string // empty when not logged in
}

// Relation is how a customer came to hold an item.
type Relation int

const (
	Borrowed Relation = iota + 1
	Purchased
)

// CustomerCard shows an item from the viewer's borrow or purchase history.
type CustomerCard struct {
	Item     climodel.Item
	Relation Relation
	ViewerID string
}

// LenderCard shows one of the viewer's own listings.
type LenderCard struct {
	Item climodel.Item
}

func (c MarketCard) item() climodel.Item   { return c.Item }
func (c CustomerCard) item() climodel.Item { return c.Item }
func (c LenderCard) item() climodel.Item   { return c.Item }

var (
	colorPrimary = lipgloss.Color("#7C3AED")
	colorMuted   = lipgloss.Color("#6B7280")
	colorSuccess = lipgloss.Color("#10B981")
	colorWarning = lipgloss.Color("#F59E0B")

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1).
			Width(56)
	titleStyle  = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(colorMuted)
	actionStyle = lipgloss.NewStyle().Foreground(colorSuccess)
	stateStyle  = lipgloss.NewStyle().Foreground(colorWarning).Bold(true)
)

// Render draws a single card.
func Render(c Card) string {
	it := c.item()
	lines := []string{
		titleStyle.Render(it.Name) + "  " + mutedStyle.Render(string(it.Category)),
		it.Description,
		price(it) + "   " + rating(it),
	}

	switch c := c.(type) {
	case MarketCard:
		lines = append(lines, mutedStyle.Render("Listed by "+it.OwnerName))
		switch {
		case c.ViewerID != "" && c.ViewerID == it.OwnerID:
			lines = append(lines, mutedStyle.Render("Your listing"))
		case it.ListingType == model.ListingBorrow:
			lines = append(lines, actionStyle.Render("borrow "+it.ID))
		default:
			lines = append(lines, actionStyle.Render("buy "+it.ID))
		}
	case CustomerCard:
		verb := "Borrowed from "
		if c.Relation == Purchased {
			verb = "Bought from "
		}
		lines = append(lines, mutedStyle.Render(verb+it.OwnerName))
		if it.RatedBy(c.ViewerID) {
			lines = append(lines, mutedStyle.Render("You rated this item"))
		} else {
			lines = append(lines, actionStyle.Render(fmt.Sprintf("rate %s <1-5> [comment]", it.ID)))
		}
	case LenderCard:
		lines = append(lines, stateStyle.Render(string(it.Status)))
		for _, r := range it.Ratings {
			line := fmt.Sprintf("%s %d/5", r.Name, r.Stars)
			if r.Comment != "" {
				line += ": " + r.Comment
			}
			lines = append(lines, mutedStyle.Render(line))
		}
	}

	return cardStyle.Render(strings.Join(lines, "\n"))
}

// RenderAll draws cards one after another, or empty when there are none.
func RenderAll(cards []Card, empty string) string {
	if len(cards) == 0 {
		return mutedStyle.Render(empty) + "\n"
	}
	var b strings.Builder
	for _, c := range cards {
		b.WriteString(Render(c))
		b.WriteString("\n")
	}
	return b.String()
}

func price(it climodel.Item) string {
	if it.ListingType == model.ListingBorrow {
		return fmt.Sprintf("$%.2f/day", it.PricePerDay)
	}
	return fmt.Sprintf("$%.2f", it.SalePrice)
}

func rating(it climodel.Item) string {
	s := it.RatingSummary()
	if s.Count == 0 {
		return s.String()
	}
	return s.Glyphs() + " " + s.String()
}
