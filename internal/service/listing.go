package service

import (
	"Neighborly/internal/auth"
	"Neighborly/internal/model"
	"Neighborly/internal/repo"
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// ListingService is the lifecycle engine of catalog items:
// Available -> Borrowed and Available -> Sold.
type ListingService struct {
	items  repo.ItemRepository
	logger *zap.SugaredLogger
	market singleflight.Group
}

func NewListingService(items repo.ItemRepository, logger *zap.SugaredLogger) *ListingService {
	return &ListingService{items: items, logger: logger}
}

// NewListing holds the owner-supplied fields of a listing.
type NewListing struct {
	Name        string
	Description string
	Category    model.Category
	ListingType model.ListingType
	PricePerDay float64
	SalePrice   float64
	ImageURL    *string
}

// OwnerListings partitions an owner's items by status, newest first in each.
type OwnerListings struct {
	Available []model.Item `json:"available"`
	Borrowed  []model.Item `json:"borrowed"`
	Sold      []model.Item `json:"sold"`
}

// Create validates and stores a new Available listing owned by owner.
func (s *ListingService) Create(ctx context.Context, owner auth.Identity, in NewListing) (*model.Item, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	switch {
	case in.Name == "":
		return nil, invalidInput("Name is required")
	case in.Description == "":
		return nil, invalidInput("Description is required")
	case !in.Category.Valid():
		return nil, invalidInput(fmt.Sprintf("Unknown category %q", in.Category))
	case !in.ListingType.Valid():
		return nil, invalidInput("Listing type must be borrow or sale")
	case in.PricePerDay < 0 || in.SalePrice < 0:
		return nil, invalidInput("Prices cannot be negative")
	}

	it := &model.Item{
		Name:        in.Name,
		Description: in.Description,
		Category:    in.Category,
		ImageURL:    in.ImageURL,
		ListingType: in.ListingType,
		Status:      model.StatusAvailable,
		OwnerID:     owner.UserID,
		OwnerName:   owner.Name,
		Ratings:     []model.Rating{},
	}
	// only the price matching the listing type is kept
	if in.ListingType == model.ListingBorrow {
		it.PricePerDay = in.PricePerDay
	} else {
		it.SalePrice = in.SalePrice
	}

	if err := s.items.Create(ctx, it); err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}
	s.logger.Infow("item listed", "item_id", it.ID, "owner_id", owner.UserID, "listing_type", it.ListingType)
	return it, nil
}

// ListAvailable returns every Available item, newest first. Concurrent
// callers share one store query; the returned slice must not be modified.
// The shared query is detached from the leader's cancellation so one
// disconnecting client does not fail the others.
func (s *ListingService) ListAvailable(ctx context.Context) ([]model.Item, error) {
	v, err, _ := s.market.Do("available", func() (any, error) {
		return s.items.ListByStatus(context.WithoutCancel(ctx), model.StatusAvailable)
	})
	if err != nil {
		return nil, err
	}
	return v.([]model.Item), nil
}

// ListForOwner returns ownerID's items split into status buckets.
func (s *ListingService) ListForOwner(ctx context.Context, ownerID string) (*OwnerListings, error) {
	items, err := s.items.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	out := &OwnerListings{
		Available: []model.Item{},
		Borrowed:  []model.Item{},
		Sold:      []model.Item{},
	}
	for _, it := range items {
		switch it.Status {
		case model.StatusAvailable:
			out.Available = append(out.Available, it)
		case model.StatusBorrowed:
			out.Borrowed = append(out.Borrowed, it)
		case model.StatusSold:
			out.Sold = append(out.Sold, it)
		}
	}
	return out, nil
}

type transitionRule struct {
	kind        string
	listing     model.ListingType
	wrongType   *Error
	ownItem     *Error
	unavailable *Error
	apply       func(ctx context.Context, itemID, userID string) (*model.Item, error)
}

// Borrow moves an Available borrow listing to Borrowed for requester.
func (s *ListingService) Borrow(ctx context.Context, itemID string, requester auth.Identity) (*model.Item, error) {
	return s.transition(ctx, itemID, requester, transitionRule{
		kind:        "borrow",
		listing:     model.ListingBorrow,
		wrongType:   ErrNotForBorrow,
		ownItem:     ErrBorrowOwnItem,
		unavailable: ErrNotAvailable,
		apply:       s.items.MarkBorrowed,
	})
}

// Buy moves an Available sale listing to Sold for requester.
func (s *ListingService) Buy(ctx context.Context, itemID string, requester auth.Identity) (*model.Item, error) {
	return s.transition(ctx, itemID, requester, transitionRule{
		kind:        "buy",
		listing:     model.ListingSale,
		wrongType:   ErrNotForSale,
		ownItem:     ErrBuyOwnItem,
		unavailable: ErrNoLongerForSale,
		apply:       s.items.MarkSold,
	})
}

// transition checks the preconditions in order (exists, listing type, owner,
// status) and then applies the conditional update. A lost race on the update
// is reported the same way as a failed status check.
func (s *ListingService) transition(ctx context.Context, itemID string, requester auth.Identity, rule transitionRule) (it *model.Item, err error) {
	defer func() { transitionsTotal.WithLabelValues(rule.kind, outcome(err)).Inc() }()

	cur, err := s.items.GetByID(ctx, itemID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load item: %w", err)
	}
	switch {
	case cur.ListingType != rule.listing:
		return nil, rule.wrongType
	case cur.OwnerID == requester.UserID:
		return nil, rule.ownItem
	case cur.Status != model.StatusAvailable:
		return nil, rule.unavailable
	}

	it, err = rule.apply(ctx, itemID, requester.UserID)
	if errors.Is(err, repo.ErrTransitionRejected) {
		s.logger.Warnw("item transition lost race", "kind", rule.kind, "item_id", itemID, "user_id", requester.UserID)
		return nil, rule.unavailable
	}
	if err != nil {
		return nil, fmt.Errorf("%s item: %w", rule.kind, err)
	}
	s.logger.Infow("item transitioned", "kind", rule.kind, "item_id", itemID, "user_id", requester.UserID, "status", it.Status)
	return it, nil
}
