package handlers_test

import (
	"Neighborly/internal/auth"
	"Neighborly/internal/config"
	"Neighborly/internal/handlers"
	"Neighborly/internal/model"
	"Neighborly/internal/repo"
	"Neighborly/internal/service"
	"Neighborly/internal/storage"
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testServer struct {
	router http.Handler
	db     *gorm.DB
	cfg    *config.Config
}

// newTestServer wires the real services over a private in-memory SQLite.
func newTestServer(t *testing.T, opts ...func(*config.Config)) *testServer {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(gormsqlite.Dialector{DriverName: "sqlite", DSN: dsn}, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, repo.Migrate(db))

	cfg := &config.Config{
		AuthSecret:  "test-secret",
		UploadDir:   filepath.Join(t.TempDir(), "uploads"),
		UploadMaxMB: 1,
	}
	for _, o := range opts {
		o(cfg)
	}
	log := zap.NewNop().Sugar()

	users := repo.NewUserRepository(db)
	items := repo.NewItemRepository(db)
	images, err := storage.NewImageStore(cfg.UploadDir, handlers.UploadsPrefix)
	require.NoError(t, err)

	svc := handlers.Services{
		Users:           service.NewUserService(users, auth.NewTokens(cfg.AuthSecret)),
		Listings:        service.NewListingService(items, log),
		Ratings:         service.NewRatingService(items, users, log),
		Recommendations: service.NewRecommendationService(users, items),
		Dashboard:       service.NewDashboardService(users),
	}
	h := handlers.NewHandler(svc, images, log, cfg)
	return &testServer{router: h.Router, db: db, cfg: cfg}
}

func (s *testServer) do(t *testing.T, method, path, token, contentType string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

func (s *testServer) doJSON(t *testing.T, method, path, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(b)
	}
	return s.do(t, method, path, token, "application/json", body)
}

// signup registers and logs in a user, returning the token and user id.
func (s *testServer) signup(t *testing.T, name string) (string, string) {
	t.Helper()
	email := strings.ToLower(name) + "@example.com"
	rr := s.doJSON(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": name, "email": email, "password": "pw-" + name,
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = s.doJSON(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": email, "password": "pw-" + name,
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var res struct {
		Token string `json:"token"`
		User  struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	decode(t, rr, &res)
	return res.Token, res.User.ID
}

func (s *testServer) createItem(t *testing.T, token string, form url.Values) model.Item {
	t.Helper()
	rr := s.do(t, http.MethodPost, "/api/items", token, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var it model.Item
	decode(t, rr, &it)
	return it
}

func listing(name string, cat model.Category, lt model.ListingType, price string) url.Values {
	v := url.Values{
		"name":        {name},
		"description": {name + " for the neighbourhood"},
		"category":    {string(cat)},
		"listingType": {string(lt)},
	}
	if lt == model.ListingBorrow {
		v.Set("pricePerDay", price)
	} else {
		v.Set("salePrice", price)
	}
	return v
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(bytes.NewReader(rr.Body.Bytes())).Decode(v), rr.Body.String())
}

func errorMessage(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	decode(t, rr, &body)
	return body.Error
}
