package service

import (
	"Neighborly/internal/model"
	"Neighborly/internal/repo"
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// RecommendationLimit caps the number of recommended items.
const RecommendationLimit = 5

// RecommendationService suggests available items from the categories a user
// has borrowed or bought before. Ranking is recency only.
type RecommendationService struct {
	users repo.UserRepository
	items repo.ItemRepository
}

func NewRecommendationService(users repo.UserRepository, items repo.ItemRepository) *RecommendationService {
	return &RecommendationService{users: users, items: items}
}

// Recommend returns at most RecommendationLimit items; no history means no
// recommendations.
func (s *RecommendationService) Recommend(ctx context.Context, userID string) ([]model.Item, error) {
	if _, err := s.users.GetUserByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}

	cats, err := s.users.HistoryCategories(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("history categories: %w", err)
	}
	if len(cats) == 0 {
		return []model.Item{}, nil
	}
	return s.items.ListRecommended(ctx, cats, userID, RecommendationLimit)
}
