package repo

import (
	"Neighborly/internal/model"
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrTransitionRejected is returned by MarkBorrowed/MarkSold when the
// conditional update matched no row: the item changed status (or type/owner
// did not qualify) between the caller's read and the write.
var ErrTransitionRejected = errors.New("item transition rejected")

// ItemRepository is the catalog store.
type ItemRepository interface {
	Create(ctx context.Context, it *model.Item) error
	// GetByID returns the item with ratings, or gorm.ErrRecordNotFound.
	GetByID(ctx context.Context, id string) (*model.Item, error)
	// ListByStatus returns items in status, newest first.
	ListByStatus(ctx context.Context, status model.Status) ([]model.Item, error)
	// ListByOwner returns all items of ownerID, newest first.
	ListByOwner(ctx context.Context, ownerID string) ([]model.Item, error)
	// ListRecommended returns up to limit available items in categories not
	// owned by excludeOwner, newest first.
	ListRecommended(ctx context.Context, categories []model.Category, excludeOwner string, limit int) ([]model.Item, error)

	// MarkBorrowed moves an Available borrow listing to Borrowed and appends it
	// to the borrower's history in one transaction.
	MarkBorrowed(ctx context.Context, itemID, borrowerID string) (*model.Item, error)
	// MarkSold moves an Available sale listing to Sold and appends it to the
	// buyer's purchase history in one transaction.
	MarkSold(ctx context.Context, itemID, buyerID string) (*model.Item, error)

	// AddRating inserts r unless the (item, user) pair is already rated.
	// created=false means a rating already existed.
	AddRating(ctx context.Context, r *model.Rating) (created bool, err error)
}

type itemRepo struct {
	db *gorm.DB
}

// NewItemRepository creates the gorm-backed catalog store.
func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepo{db: db}
}

func orderRatings(db *gorm.DB) *gorm.DB {
	return db.Order("ratings.id ASC")
}

func (r *itemRepo) Create(ctx context.Context, it *model.Item) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(it).Error
}

func (r *itemRepo) GetByID(ctx context.Context, id string) (*model.Item, error) {
	// postgres rejects malformed uuids with a syntax error, not "no rows"
	if _, err := uuid.Parse(id); err != nil {
		return nil, gorm.ErrRecordNotFound
	}
	return getItem(r.db.WithContext(ctx), id)
}

func getItem(db *gorm.DB, id string) (*model.Item, error) {
	var it model.Item
	if err := db.Preload("Ratings", orderRatings).Where("id = ?", id).First(&it).Error; err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *itemRepo) ListByStatus(ctx context.Context, status model.Status) ([]model.Item, error) {
	items := []model.Item{}
	err := r.db.WithContext(ctx).
		Preload("Ratings", orderRatings).
		Where("status = ?", status).
		Order("created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *itemRepo) ListByOwner(ctx context.Context, ownerID string) ([]model.Item, error) {
	items := []model.Item{}
	err := r.db.WithContext(ctx).
		Preload("Ratings", orderRatings).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *itemRepo) ListRecommended(ctx context.Context, categories []model.Category, excludeOwner string, limit int) ([]model.Item, error) {
	items := []model.Item{}
	if len(categories) == 0 {
		return items, nil
	}
	err := r.db.WithContext(ctx).
		Preload("Ratings", orderRatings).
		Where("category IN ?", categories).
		Where("status = ?", model.StatusAvailable).
		Where("owner_id <> ?", excludeOwner).
		Order("created_at DESC").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *itemRepo) MarkBorrowed(ctx context.Context, itemID, borrowerID string) (*model.Item, error) {
	return r.transition(ctx, itemID, borrowerID, model.ListingBorrow, map[string]any{
		"status":      model.StatusBorrowed,
		"borrower_id": borrowerID,
	}, model.HistoryBorrowed)
}

func (r *itemRepo) MarkSold(ctx context.Context, itemID, buyerID string) (*model.Item, error) {
	return r.transition(ctx, itemID, buyerID, model.ListingSale, map[string]any{
		"status":      model.StatusSold,
		"borrower_id": nil,
	}, model.HistoryPurchased)
}

// transition performs the compare-and-swap on status plus the history append.
// Either both writes commit or neither does.
func (r *itemRepo) transition(
	ctx context.Context,
	itemID, requesterID string,
	listing model.ListingType,
	updates map[string]any,
	kind model.HistoryKind,
) (*model.Item, error) {
	var out *model.Item
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Item{}).
			Where("id = ? AND status = ? AND listing_type = ? AND owner_id <> ?",
				itemID, model.StatusAvailable, listing, requesterID).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrTransitionRejected
		}

		entry := &model.HistoryEntry{UserID: requesterID, ItemID: itemID, Kind: kind}
		if err := tx.Create(entry).Error; err != nil {
			return err
		}

		it, err := getItem(tx, itemID)
		if err != nil {
			return err
		}
		out = it
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *itemRepo) AddRating(ctx context.Context, rt *model.Rating) (bool, error) {
	tx := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "item_id"}, {Name: "user_id"}},
		DoNothing: true,
	}).Create(rt)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}
