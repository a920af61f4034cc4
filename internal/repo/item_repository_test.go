package repo

import (
	"Neighborly/internal/model"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestItemRepository_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	r := NewItemRepository(db)
	ctx := context.Background()

	alice := mkUser(t, db, "alice")
	it := mkItem(t, db, alice, "drill", model.CategoryTools, model.ListingBorrow, 0)
	assert.NotEmpty(t, it.ID)

	got, err := r.GetByID(ctx, it.ID)
	require.NoError(t, err)
	assert.Equal(t, "drill", got.Name)
	assert.Equal(t, alice.ID, got.OwnerID)
	assert.Equal(t, "alice", got.OwnerName)
	assert.Nil(t, got.BorrowerID)
	assert.NotNil(t, got.Ratings)
	assert.Empty(t, got.Ratings)

	got, err = r.GetByID(ctx, "missing")
	assert.Nil(t, got)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestItemRepository_ListsNewestFirst(t *testing.T) {
	db := newTestDB(t)
	r := NewItemRepository(db)
	ctx := context.Background()

	alice := mkUser(t, db, "alice")
	bob := mkUser(t, db, "bob")
	old := mkItem(t, db, alice, "old", model.CategoryTools, model.ListingBorrow, 3*time.Hour)
	mid := mkItem(t, db, bob, "mid", model.CategoryTools, model.ListingSale, 2*time.Hour)
	mkItem(t, db, alice, "new", model.CategoryKitchen, model.ListingSale, time.Hour)

	_, err := r.MarkSold(ctx, mid.ID, alice.ID)
	require.NoError(t, err)

	avail, err := r.ListByStatus(ctx, model.StatusAvailable)
	require.NoError(t, err)
	if assert.Len(t, avail, 2) {
		assert.Equal(t, "new", avail[0].Name)
		assert.Equal(t, old.ID, avail[1].ID)
	}

	mine, err := r.ListByOwner(ctx, alice.ID)
	require.NoError(t, err)
	if assert.Len(t, mine, 2) {
		assert.Equal(t, "new", mine[0].Name)
		assert.Equal(t, "old", mine[1].Name)
	}

	none, err := r.ListByOwner(ctx, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestItemRepository_MarkBorrowed(t *testing.T) {
	db := newTestDB(t)
	r := NewItemRepository(db)
	ctx := context.Background()

	alice := mkUser(t, db, "alice")
	bob := mkUser(t, db, "bob")
	carol := mkUser(t, db, "carol")
	it := mkItem(t, db, alice, "drill", model.CategoryTools, model.ListingBorrow, 0)

	// owner cannot take the transition
	_, err := r.MarkBorrowed(ctx, it.ID, alice.ID)
	assert.ErrorIs(t, err, ErrTransitionRejected)

	got, err := r.MarkBorrowed(ctx, it.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusBorrowed, got.Status)
	if assert.NotNil(t, got.BorrowerID) {
		assert.Equal(t, bob.ID, *got.BorrowerID)
	}

	// second borrow loses the compare-and-swap and leaves no history behind
	_, err = r.MarkBorrowed(ctx, it.ID, carol.ID)
	assert.ErrorIs(t, err, ErrTransitionRejected)
	ok, err := NewUserRepository(db).HasHistory(ctx, carol.ID, it.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	// wrong listing type
	sale := mkItem(t, db, alice, "pan", model.CategoryKitchen, model.ListingSale, 0)
	_, err = r.MarkBorrowed(ctx, sale.ID, bob.ID)
	assert.ErrorIs(t, err, ErrTransitionRejected)
}

func TestItemRepository_MarkSoldClearsBorrower(t *testing.T) {
	db := newTestDB(t)
	r := NewItemRepository(db)
	ctx := context.Background()

	alice := mkUser(t, db, "alice")
	bob := mkUser(t, db, "bob")
	it := mkItem(t, db, alice, "pan", model.CategoryKitchen, model.ListingSale, 0)
	stale := "stale"
	require.NoError(t, db.Model(&model.Item{}).Where("id = ?", it.ID).Update("borrower_id", stale).Error)

	got, err := r.MarkSold(ctx, it.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusSold, got.Status)
	assert.Nil(t, got.BorrowerID)

	_, err = r.MarkSold(ctx, it.ID, bob.ID)
	assert.ErrorIs(t, err, ErrTransitionRejected)
}

func TestItemRepository_ConcurrentBorrowSingleWinner(t *testing.T) {
	db := newTestDB(t)
	r := NewItemRepository(db)
	ctx := context.Background()

	alice := mkUser(t, db, "alice")
	it := mkItem(t, db, alice, "drill", model.CategoryTools, model.ListingBorrow, 0)
	borrowers := make([]*model.User, 8)
	for i := range borrowers {
		borrowers[i] = mkUser(t, db, "b"+string(rune('a'+i)))
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for _, b := range borrowers {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			if _, err := r.MarkBorrowed(ctx, it.ID, id); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}(b.ID)
	}
	wg.Wait()
	assert.Equal(t, 1, wins)

	var entries int64
	require.NoError(t, db.Model(&model.HistoryEntry{}).Where("item_id = ?", it.ID).Count(&entries).Error)
	assert.Equal(t, int64(1), entries)
}

func TestItemRepository_AddRating_InsertIfAbsent(t *testing.T) {
	db := newTestDB(t)
	r := NewItemRepository(db)
	ctx := context.Background()

	alice := mkUser(t, db, "alice")
	bob := mkUser(t, db, "bob")
	carol := mkUser(t, db, "carol")
	it := mkItem(t, db, alice, "drill", model.CategoryTools, model.ListingBorrow, 0)

	created, err := r.AddRating(ctx, &model.Rating{ItemID: it.ID, UserID: bob.ID, Name: "bob", Stars: 4, Comment: "great"})
	require.NoError(t, err)
	assert.True(t, created)

	created, err = r.AddRating(ctx, &model.Rating{ItemID: it.ID, UserID: bob.ID, Name: "bob", Stars: 1})
	require.NoError(t, err)
	assert.False(t, created)

	created, err = r.AddRating(ctx, &model.Rating{ItemID: it.ID, UserID: carol.ID, Name: "carol", Stars: 2})
	require.NoError(t, err)
	assert.True(t, created)

	got, err := r.GetByID(ctx, it.ID)
	require.NoError(t, err)
	if assert.Len(t, got.Ratings, 2) {
		assert.Equal(t, bob.ID, got.Ratings[0].UserID)
		assert.Equal(t, 4, got.Ratings[0].Stars)
		assert.Equal(t, "great", got.Ratings[0].Comment)
		assert.Equal(t, carol.ID, got.Ratings[1].UserID)
	}
	assert.InDelta(t, 3.0, got.RatingSummary().Average, 1e-9)
}

func TestItemRepository_ListRecommended(t *testing.T) {
	db := newTestDB(t)
	r := NewItemRepository(db)
	ctx := context.Background()

	alice := mkUser(t, db, "alice")
	bob := mkUser(t, db, "bob")
	for i := 0; i < 7; i++ {
		mkItem(t, db, alice, "tool"+string(rune('a'+i)), model.CategoryTools, model.ListingBorrow, time.Duration(i+1)*time.Minute)
	}
	mkItem(t, db, bob, "bobs-tool", model.CategoryTools, model.ListingBorrow, 0)
	mkItem(t, db, alice, "stove", model.CategoryCamping, model.ListingSale, 0)

	got, err := r.ListRecommended(ctx, []model.Category{model.CategoryTools}, bob.ID, 5)
	require.NoError(t, err)
	if assert.Len(t, got, 5) {
		assert.Equal(t, "toola", got[0].Name) // newest
		for _, it := range got {
			assert.Equal(t, model.CategoryTools, it.Category)
			assert.NotEqual(t, bob.ID, it.OwnerID)
		}
	}

	empty, err := r.ListRecommended(ctx, nil, bob.ID, 5)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}
