package handlers_test

import (
	"Neighborly/internal/config"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_Register(t *testing.T) {
	s := newTestServer(t)
	body := map[string]string{"name": "John", "email": "john@example.com", "password": "p"}

	t.Run("ok", func(t *testing.T) {
		rr := s.doJSON(t, http.MethodPost, "/api/auth/register", "", body)
		assert.Equal(t, http.StatusCreated, rr.Code)
		var res map[string]string
		decode(t, rr, &res)
		assert.Equal(t, "User registered successfully", res["message"])
	})

	t.Run("email taken", func(t *testing.T) {
		rr := s.doJSON(t, http.MethodPost, "/api/auth/register", "", body)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "User already exists", errorMessage(t, rr))
	})

	t.Run("missing fields", func(t *testing.T) {
		rr := s.doJSON(t, http.MethodPost, "/api/auth/register", "", map[string]string{"email": "x@example.com"})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		rr := s.do(t, http.MethodPost, "/api/auth/register", "", "application/json", strings.NewReader("{"))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "Invalid request body", errorMessage(t, rr))
	})
}

func TestUser_Login(t *testing.T) {
	s := newTestServer(t)
	rr := s.doJSON(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Alice", "email": "alice@example.com", "password": "secret",
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	t.Run("ok", func(t *testing.T) {
		rr := s.doJSON(t, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email": "alice@example.com", "password": "secret",
		})
		require.Equal(t, http.StatusOK, rr.Code)

		var res map[string]any
		decode(t, rr, &res)
		assert.NotEmpty(t, res["token"])
		user := res["user"].(map[string]any)
		assert.Equal(t, "Alice", user["name"])
		assert.Equal(t, "alice@example.com", user["email"])
		assert.NotEmpty(t, user["id"])
		assert.NotContains(t, rr.Body.String(), "password")
	})

	for name, creds := range map[string]map[string]string{
		"wrong password": {"email": "alice@example.com", "password": "bad"},
		"unknown email":  {"email": "nobody@example.com", "password": "secret"},
	} {
		t.Run(name, func(t *testing.T) {
			rr := s.doJSON(t, http.MethodPost, "/api/auth/login", "", creds)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, "Invalid credentials", errorMessage(t, rr))
		})
	}
}

func TestAuth_ProtectedRoutes(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(t, http.MethodGet, "/api/auth/dashboard/lender", "", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "No token provided, authorization denied.", errorMessage(t, rr))

	rr = s.do(t, http.MethodGet, "/api/auth/dashboard/lender", "not-a-jwt", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "Token is not valid.", errorMessage(t, rr))

	rr = s.do(t, http.MethodPut, "/api/items/whatever/borrow", "", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAuth_RateLimited(t *testing.T) {
	s := newTestServer(t, func(c *config.Config) {
		c.AuthRateRPS = 0.001
		c.AuthRateBurst = 1
	})

	creds := map[string]string{"email": "a@example.com", "password": "x"}
	rr := s.doJSON(t, http.MethodPost, "/api/auth/login", "", creds)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	rr = s.doJSON(t, http.MethodPost, "/api/auth/login", "", creds)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
}
