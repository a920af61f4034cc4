package handlers

import (
	"Neighborly/internal/config"
	"Neighborly/internal/middleware"
	"Neighborly/internal/service"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// UploadsPrefix is the URL prefix stored images are served under.
const UploadsPrefix = "/uploads"

type Handler struct {
	Router chi.Router
}

// Services bundles the domain services behind the HTTP surface.
type Services struct {
	Users           *service.UserService
	Listings        *service.ListingService
	Ratings         *service.RatingService
	Recommendations *service.RecommendationService
	Dashboard       *service.DashboardService
}

// ImageSaver persists an uploaded listing image and returns its public URL.
type ImageSaver interface {
	Save(field, filename string, r io.Reader) (string, error)
}

// NewHandler wires middlewares and routes.
func NewHandler(
	svc Services,
	images ImageSaver,
	logger *zap.SugaredLogger,
	cfg *config.Config,
) *Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.WithLogging)
	r.Use(chimw.Recoverer)
	r.Use(middleware.WithMetrics)
	r.Use(middleware.WithGzip)

	userHandler := NewUserHandler(svc.Users, logger)
	dashHandler := NewDashboardHandler(svc.Listings, svc.Dashboard, svc.Recommendations, logger)
	itemHandler := NewItemHandler(svc.Listings, svc.Ratings, images, logger, cfg)
	requireAuth := middleware.RequireAuth(svc.Users)

	r.Handle("/metrics", promhttp.Handler())
	r.Handle(UploadsPrefix+"/*", http.StripPrefix(UploadsPrefix+"/", http.FileServer(http.Dir(cfg.UploadDir))))

	r.Route("/api/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if cfg.AuthRateRPS > 0 {
				r.Use(middleware.RateLimitPerIP(rate.Limit(cfg.AuthRateRPS), cfg.AuthRateBurst))
			}
			r.Post("/register", userHandler.Register)
			r.Post("/login", userHandler.Login)
		})
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/dashboard/lender", dashHandler.Lender)
			r.Get("/dashboard/customer", dashHandler.Customer)
			r.Get("/dashboard/recommendations", dashHandler.Recommendations)
		})
	})

	r.Route("/api/items", func(r chi.Router) {
		r.Get("/", itemHandler.List)
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/", itemHandler.Create)
			r.Put("/{id}/borrow", itemHandler.Borrow)
			r.Post("/{id}/buy", itemHandler.Buy)
			r.Post("/{id}/rate", itemHandler.Rate)
		})
	})

	return &Handler{Router: r}
}
