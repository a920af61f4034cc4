package commands

import (
	"Neighborly/internal/auth"
	"Neighborly/internal/config"
	"Neighborly/internal/handlers"
	"Neighborly/internal/repo"
	"Neighborly/internal/service"
	"Neighborly/internal/storage"
	"context"
	"net/http/httptest"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// withTempConfig points the user config dir and the session file into a
// temp directory so tests never touch the real session.
func withTempConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	if runtime.GOOS == "windows" {
		t.Setenv("APPDATA", dir)
	} else {
		t.Setenv("XDG_CONFIG_HOME", dir)
	}
	return &config.Config{SessionFile: filepath.Join(dir, "Neighborly", "session.json")}
}

// withMarketServer starts the real HTTP API over an in-memory SQLite and
// returns a client config pointing at it.
func withMarketServer(t *testing.T) *config.Config {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(gormsqlite.Dialector{DriverName: "sqlite", DSN: dsn}, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := repo.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	srvCfg := &config.Config{
		AuthSecret:  "test-secret",
		UploadDir:   filepath.Join(t.TempDir(), "uploads"),
		UploadMaxMB: 1,
	}
	log := zap.NewNop().Sugar()
	users := repo.NewUserRepository(db)
	items := repo.NewItemRepository(db)
	images, err := storage.NewImageStore(srvCfg.UploadDir, handlers.UploadsPrefix)
	if err != nil {
		t.Fatalf("image store: %v", err)
	}
	h := handlers.NewHandler(handlers.Services{
		Users:           service.NewUserService(users, auth.NewTokens(srvCfg.AuthSecret)),
		Listings:        service.NewListingService(items, log),
		Ratings:         service.NewRatingService(items, users, log),
		Recommendations: service.NewRecommendationService(users, items),
		Dashboard:       service.NewDashboardService(users),
	}, images, log, srvCfg)

	ts := httptest.NewServer(h.Router)
	t.Cleanup(ts.Close)

	cfg := withTempConfig(t)
	cfg.ServerURL = ts.URL
	return cfg
}

// run dispatches args and returns the exit code with everything printed.
func run(t *testing.T, cfg *config.Config, args ...string) (int, string) {
	t.Helper()
	var code int
	out := withStdoutCapture(t, func() { code = Dispatch(context.Background(), cfg, args) })
	return code, out
}
