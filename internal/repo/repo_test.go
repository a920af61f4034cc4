package repo

import (
	"Neighborly/internal/model"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

// newTestDB opens a private in-memory SQLite (modernc.org/sqlite) database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	dial := gormsqlite.Dialector{DriverName: "sqlite", DSN: dsn}
	db, err := gorm.Open(dial, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open sqlite (modernc): %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	// one connection keeps the in-memory database alive and serializes transactions
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := Migrate(db); err != nil {
		t.Fatalf("failed to automigrate: %v", err)
	}
	return db
}

func mkUser(t *testing.T, db *gorm.DB, name string) *model.User {
	t.Helper()
	u, err := NewUserRepository(db).CreateUser(context.Background(), &model.User{
		Name: name, Email: name + "@example.com", Password: "hash",
	})
	if err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	return u
}

// mkItem stores an Available listing created `age` ago.
func mkItem(t *testing.T, db *gorm.DB, owner *model.User, name string, cat model.Category, lt model.ListingType, age time.Duration) *model.Item {
	t.Helper()
	it := &model.Item{
		Name:        name,
		Description: name + " description",
		Category:    cat,
		ListingType: lt,
		Status:      model.StatusAvailable,
		OwnerID:     owner.ID,
		OwnerName:   owner.Name,
		CreatedAt:   time.Now().UTC().Add(-age),
	}
	if err := NewItemRepository(db).Create(context.Background(), it); err != nil {
		t.Fatalf("create item %s: %v", name, err)
	}
	return it
}
