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
	"gorm.io/gorm"
)

// RatingService gates ratings on borrow/purchase history and keeps one
// rating per (item, user).
type RatingService struct {
	items  repo.ItemRepository
	users  repo.UserRepository
	logger *zap.SugaredLogger
}

func NewRatingService(items repo.ItemRepository, users repo.UserRepository, logger *zap.SugaredLogger) *RatingService {
	return &RatingService{items: items, users: users, logger: logger}
}

// Rate appends requester's rating to the item and returns all its ratings.
func (s *RatingService) Rate(ctx context.Context, itemID string, requester auth.Identity, stars int, comment string) (ratings []model.Rating, err error) {
	defer func() { ratingsTotal.WithLabelValues(outcome(err)).Inc() }()

	if !model.ValidStars(stars) {
		return nil, ErrInvalidStars
	}

	it, err := s.items.GetByID(ctx, itemID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load item: %w", err)
	}

	eligible, err := s.users.HasHistory(ctx, requester.UserID, itemID)
	if err != nil {
		return nil, fmt.Errorf("check history: %w", err)
	}
	if !eligible {
		return nil, ErrNotEligibleToRate
	}
	if it.RatedBy(requester.UserID) {
		return nil, ErrAlreadyRated
	}

	created, err := s.items.AddRating(ctx, &model.Rating{
		ItemID:  itemID,
		UserID:  requester.UserID,
		Name:    requester.Name,
		Stars:   stars,
		Comment: strings.TrimSpace(comment),
	})
	if err != nil {
		return nil, fmt.Errorf("add rating: %w", err)
	}
	if !created {
		return nil, ErrAlreadyRated
	}

	it, err = s.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("reload item: %w", err)
	}
	s.logger.Infow("item rated", "item_id", itemID, "user_id", requester.UserID, "stars", stars)
	return it.Ratings, nil
}
