package service

import (
	"Neighborly/internal/model"
	"Neighborly/internal/repo"
	"context"

	"github.com/stretchr/testify/mock"
)

// mock for repo.UserRepository
type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	args := m.Called(ctx, user)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) HasHistory(ctx context.Context, userID, itemID string) (bool, error) {
	args := m.Called(ctx, userID, itemID)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepo) HistoryItems(ctx context.Context, userID string, kind model.HistoryKind) ([]model.Item, error) {
	args := m.Called(ctx, userID, kind)
	if v, ok := args.Get(0).([]model.Item); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) HistoryCategories(ctx context.Context, userID string) ([]model.Category, error) {
	args := m.Called(ctx, userID)
	if v, ok := args.Get(0).([]model.Category); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

var _ repo.UserRepository = (*mockUserRepo)(nil)

// mock for repo.ItemRepository
type mockItemRepo struct{ mock.Mock }

func (m *mockItemRepo) Create(ctx context.Context, it *model.Item) error {
	return m.Called(ctx, it).Error(0)
}

func (m *mockItemRepo) GetByID(ctx context.Context, id string) (*model.Item, error) {
	args := m.Called(ctx, id)
	if v, ok := args.Get(0).(*model.Item); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockItemRepo) ListByStatus(ctx context.Context, status model.Status) ([]model.Item, error) {
	args := m.Called(ctx, status)
	if v, ok := args.Get(0).([]model.Item); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockItemRepo) ListByOwner(ctx context.Context, ownerID string) ([]model.Item, error) {
	args := m.Called(ctx, ownerID)
	if v, ok := args.Get(0).([]model.Item); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockItemRepo) ListRecommended(ctx context.Context, categories []model.Category, excludeOwner string, limit int) ([]model.Item, error) {
	args := m.Called(ctx, categories, excludeOwner, limit)
	if v, ok := args.Get(0).([]model.Item); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockItemRepo) MarkBorrowed(ctx context.Context, itemID, borrowerID string) (*model.Item, error) {
	args := m.Called(ctx, itemID, borrowerID)
	if v, ok := args.Get(0).(*model.Item); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockItemRepo) MarkSold(ctx context.Context, itemID, buyerID string) (*model.Item, error) {
	args := m.Called(ctx, itemID, buyerID)
	if v, ok := args.Get(0).(*model.Item); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockItemRepo) AddRating(ctx context.Context, r *model.Rating) (bool, error) {
	args := m.Called(ctx, r)
	return args.Bool(0), args.Error(1)
}

var _ repo.ItemRepository = (*mockItemRepo)(nil)

func ptrStr(s string) *string { return &s }
