package handlers

import (
	"Neighborly/internal/config"
	"Neighborly/internal/imaging"
	"Neighborly/internal/middleware"
	"Neighborly/internal/model"
	"Neighborly/internal/service"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ItemHandler serves the catalog and the borrow / buy / rate actions.
type ItemHandler struct {
	Listings *service.ListingService
	Ratings  *service.RatingService
	Images   ImageSaver
	Logger   *zap.SugaredLogger
	Config   *config.Config
}

func NewItemHandler(
	listings *service.ListingService,
	ratings *service.RatingService,
	images ImageSaver,
	logger *zap.SugaredLogger,
	cfg *config.Config,
) *ItemHandler {
	return &ItemHandler{Listings: listings, Ratings: ratings, Images: images, Logger: logger, Config: cfg}
}

// List returns all Available items, newest first.
func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Listings.ListAvailable(r.Context())
	if err != nil {
		writeServiceError(w, h.Logger, "List", err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// Create accepts multipart/form-data (optional "image" file) or an
// urlencoded form.
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	owner, _ := middleware.GetIdentity(r.Context())

	maxBody := int64(h.Config.UploadMaxMB)*1024*1024 + 1024*1024
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)

	isMultipart := strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
	var err error
	if isMultipart {
		err = r.ParseMultipartForm(maxBody)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Upload is too large")
			return
		}
		h.Logger.Warnw("Create: invalid form", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	pricePerDay, err := parsePrice(r.FormValue("pricePerDay"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid price per day")
		return
	}
	salePrice, err := parsePrice(r.FormValue("salePrice"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid sale price")
		return
	}

	in := service.NewListing{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
		Category:    model.Category(r.FormValue("category")),
		ListingType: model.ListingType(r.FormValue("listingType")),
		PricePerDay: pricePerDay,
		SalePrice:   salePrice,
	}

	if isMultipart {
		url, ok := h.saveImage(w, r)
		if !ok {
			return
		}
		in.ImageURL = url
	}

	it, err := h.Listings.Create(r.Context(), owner, in)
	if err != nil {
		writeServiceError(w, h.Logger, "Create", err)
		return
	}
	writeJSON(w, http.StatusCreated, it)
}

// saveImage stores the optional "image" file. ok=false means a response was
// already written.
func (h *ItemHandler) saveImage(w http.ResponseWriter, r *http.Request) (*string, bool) {
	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, true
	}
	if err != nil {
		h.Logger.Warnw("Create: bad image part", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid image upload")
		return nil, false
	}
	defer file.Close()

	if header.Size > int64(h.Config.UploadMaxMB)*1024*1024 {
		writeError(w, http.StatusRequestEntityTooLarge, "Upload is too large")
		return nil, false
	}

	url, err := h.Images.Save("image", header.Filename, file)
	switch {
	case errors.Is(err, imaging.ErrUnsupportedFormat), errors.Is(err, imaging.ErrInvalidImage):
		writeError(w, http.StatusBadRequest, "Only JPEG and PNG images are allowed")
		return nil, false
	case err != nil:
		h.Logger.Errorw("Create: store image", "error", err)
		writeError(w, http.StatusInternalServerError, "Server error")
		return nil, false
	}
	return &url, true
}

func parsePrice(v string) (float64, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errors.New("invalid price")
	}
	return f, nil
}

func (h *ItemHandler) Borrow(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.GetIdentity(r.Context())
	it, err := h.Listings.Borrow(r.Context(), chi.URLParam(r, "id"), id)
	if err != nil {
		writeServiceError(w, h.Logger, "Borrow", err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

func (h *ItemHandler) Buy(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.GetIdentity(r.Context())
	it, err := h.Listings.Buy(r.Context(), chi.URLParam(r, "id"), id)
	if err != nil {
		writeServiceError(w, h.Logger, "Buy", err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

type rateRequest struct {
	Stars   starsValue `json:"stars"`
	Comment string     `json:"comment"`
}

// starsValue accepts stars as a JSON number or a numeric string ("4").
// Anything unparsable decodes to 0 and is rejected by the service.
type starsValue float64

func (v *starsValue) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = strings.TrimSpace(unquoted)
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		f = 0
	}
	*v = starsValue(f)
	return nil
}

// Rate adds the caller's rating and returns the item's ratings.
func (h *ItemHandler) Rate(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.GetIdentity(r.Context())

	var req rateRequest
	if err := decodeJSON(r, &req); err != nil {
		h.Logger.Warnw("Rate: invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	// fractional stars are rejected by the service as out of range
	stars := 0
	if f := float64(req.Stars); f == math.Trunc(f) && math.Abs(f) <= model.MaxStars {
		stars = int(f)
	}

	ratings, err := h.Ratings.Rate(r.Context(), chi.URLParam(r, "id"), id, stars, req.Comment)
	if err != nil {
		writeServiceError(w, h.Logger, "Rate", err)
		return
	}
	writeJSON(w, http.StatusCreated, ratings)
}
