package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"Neighborly/internal/cli/model"
)

// ErrNoToken is returned for authenticated calls made without a session.
var ErrNoToken = errors.New("no session token")

// APIError is a non-2xx answer; Message is the server's "error" field.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server status %d", e.Status)
	}
	return e.Message
}

// Client talks to the marketplace HTTP API.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) Register(ctx context.Context, name, email, password string) error {
	payload := map[string]string{"name": name, "email": email, "password": password}
	return c.postJSON(ctx, "/api/auth/register", nil, payload, nil)
}

// Login returns a fresh session; the caller decides where to keep it.
func (c *Client) Login(ctx context.Context, email, password string) (*model.Session, error) {
	var out struct {
		Token string            `json:"token"`
		User  model.SessionUser `json:"user"`
	}
	payload := map[string]string{"email": email, "password": password}
	if err := c.postJSON(ctx, "/api/auth/login", nil, payload, &out); err != nil {
		return nil, err
	}
	return &model.Session{Token: out.Token, User: out.User, SavedAt: time.Now().UTC()}, nil
}

func (c *Client) Market(ctx context.Context) ([]model.Item, error) {
	var out []model.Item
	err := c.do(ctx, http.MethodGet, "/api/items", nil, "", nil, &out)
	return out, err
}

// CreateListing uploads the listing as multipart/form-data with an optional image.
func (c *Client) CreateListing(ctx context.Context, sess *model.Session, in model.NewListing) (*model.Item, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fields := map[string]string{
		"name":        in.Name,
		"description": in.Description,
		"category":    in.Category,
		"listingType": in.ListingType,
	}
	price := strconv.FormatFloat(in.Price, 'f', -1, 64)
	if in.ListingType == "sale" {
		fields["salePrice"] = price
	} else {
		fields["pricePerDay"] = price
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return nil, err
		}
	}
	if in.ImagePath != "" {
		if err := attachFile(mw, "image", in.ImagePath); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	var out model.Item
	if err := c.do(ctx, http.MethodPost, "/api/items", sess, mw.FormDataContentType(), &buf, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func attachFile(mw *multipart.Writer, field, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w, err := mw.CreateFormFile(field, filepath.Base(path))
	if err != nil {
		return err
	}
	_, err = io.Copy(w, f)
	return err
}

func (c *Client) Borrow(ctx context.Context, sess *model.Session, itemID string) (*model.Item, error) {
	var out model.Item
	if err := c.do(ctx, http.MethodPut, "/api/items/"+itemID+"/borrow", sess, "", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Buy(ctx context.Context, sess *model.Session, itemID string) (*model.Item, error) {
	var out model.Item
	if err := c.do(ctx, http.MethodPost, "/api/items/"+itemID+"/buy", sess, "", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Rate(ctx context.Context, sess *model.Session, itemID string, stars int, comment string) ([]model.Rating, error) {
	var out []model.Rating
	payload := map[string]any{"stars": stars, "comment": comment}
	err := c.postJSON(ctx, "/api/items/"+itemID+"/rate", sess, payload, &out)
	return out, err
}

func (c *Client) Lender(ctx context.Context, sess *model.Session) (*model.LenderDashboard, error) {
	var out model.LenderDashboard
	if err := c.do(ctx, http.MethodGet, "/api/auth/dashboard/lender", sess, "", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Customer(ctx context.Context, sess *model.Session) (*model.CustomerDashboard, error) {
	var out model.CustomerDashboard
	if err := c.do(ctx, http.MethodGet, "/api/auth/dashboard/customer", sess, "", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Recommendations(ctx context.Context, sess *model.Session) ([]model.Item, error) {
	var out []model.Item
	err := c.do(ctx, http.MethodGet, "/api/auth/dashboard/recommendations", sess, "", nil, &out)
	return out, err
}

func (c *Client) postJSON(ctx context.Context, path string, sess *model.Session, payload, out any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, path, sess, "application/json", bytes.NewReader(b), out)
}

// do sends one request. sess is required for authenticated paths only;
// a nil session sends no Authorization header.
func (c *Client) do(ctx context.Context, method, path string, sess *model.Session, contentType string, body io.Reader, out any) error {
	authRequired := strings.HasPrefix(path, "/api/auth/dashboard") ||
		(method != http.MethodGet && strings.HasPrefix(path, "/api/items"))
	if authRequired && !sess.Valid() {
		return ErrNoToken
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if sess.Valid() {
		req.Header.Set("Authorization", "Bearer "+sess.Token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var e struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &e) == nil {
			apiErr.Message = e.Error
		}
		return apiErr
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
