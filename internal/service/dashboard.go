package service

import (
	"Neighborly/internal/model"
	"Neighborly/internal/repo"
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// CustomerItems is the customer's side of the dashboard.
type CustomerItems struct {
	Borrowed  []model.Item `json:"borrowed"`
	Purchased []model.Item `json:"purchased"`
}

// DashboardService resolves a user's history references to items.
type DashboardService struct {
	users repo.UserRepository
}

func NewDashboardService(users repo.UserRepository) *DashboardService {
	return &DashboardService{users: users}
}

// Customer returns the items userID borrowed and purchased, in history order.
func (s *DashboardService) Customer(ctx context.Context, userID string) (*CustomerItems, error) {
	if _, err := s.users.GetUserByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	borrowed, err := s.users.HistoryItems(ctx, userID, model.HistoryBorrowed)
	if err != nil {
		return nil, fmt.Errorf("borrowed history: %w", err)
	}
	purchased, err := s.users.HistoryItems(ctx, userID, model.HistoryPurchased)
	if err != nil {
		return nil, fmt.Errorf("purchased history: %w", err)
	}
	return &CustomerItems{Borrowed: borrowed, Purchased: purchased}, nil
}
