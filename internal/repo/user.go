package repo

import (
	"Neighborly/internal/model"
	"context"

	"gorm.io/gorm"
)

// UserRepository is the identity store: accounts plus their append-only
// borrow/purchase history.
type UserRepository interface {
	// CreateUser returns gorm.ErrDuplicatedKey when the email is taken.
	CreateUser(ctx context.Context, user *model.User) (*model.User, error)
	// GetUserByEmail returns gorm.ErrRecordNotFound for unknown emails.
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	// GetUserByID returns the user with both history lists filled.
	GetUserByID(ctx context.Context, id string) (*model.User, error)

	HasHistory(ctx context.Context, userID, itemID string) (bool, error)
	// HistoryItems resolves one history list to items, oldest entry first.
	HistoryItems(ctx context.Context, userID string, kind model.HistoryKind) ([]model.Item, error)
	// HistoryCategories returns the distinct categories across both lists.
	HistoryCategories(ctx context.Context, userID string) ([]model.Category, error)
}

type userRepo struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isDuplicate(err) {
			return nil, gorm.ErrDuplicatedKey
		}
		return nil, err
	}
	return user, nil
}

func (r *userRepo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, err
	}

	var entries []model.HistoryEntry
	if err := r.db.WithContext(ctx).Where("user_id = ?", id).Order("id ASC").Find(&entries).Error; err != nil {
		return nil, err
	}
	u.BorrowedHistory = []string{}
	u.PurchasedItems = []string{}
	for _, e := range entries {
		switch e.Kind {
		case model.HistoryBorrowed:
			u.BorrowedHistory = append(u.BorrowedHistory, e.ItemID)
		case model.HistoryPurchased:
			u.PurchasedItems = append(u.PurchasedItems, e.ItemID)
		}
	}
	return &u, nil
}

func (r *userRepo) HasHistory(ctx context.Context, userID, itemID string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.HistoryEntry{}).
		Where("user_id = ? AND item_id = ?", userID, itemID).
		Count(&n).Error
	return n > 0, err
}

func (r *userRepo) HistoryItems(ctx context.Context, userID string, kind model.HistoryKind) ([]model.Item, error) {
	items := []model.Item{}
	err := r.db.WithContext(ctx).
		Joins("JOIN history_entries ON history_entries.item_id = items.id").
		Where("history_entries.user_id = ? AND history_entries.kind = ?", userID, kind).
		Order("history_entries.id ASC").
		Preload("Ratings", orderRatings).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *userRepo) HistoryCategories(ctx context.Context, userID string) ([]model.Category, error) {
	var cats []model.Category
	err := r.db.WithContext(ctx).
		Table("history_entries").
		Joins("JOIN items ON items.id = history_entries.item_id").
		Where("history_entries.user_id = ?", userID).
		Distinct().
		Pluck("items.category", &cats).Error
	if err != nil {
		return nil, err
	}
	return cats, nil
}
