package handlers

import (
	"Neighborly/internal/middleware"
	"Neighborly/internal/service"
	"net/http"

	"go.uber.org/zap"
)

// DashboardHandler serves the caller's lender, customer and recommendation views.
type DashboardHandler struct {
	Listings        *service.ListingService
	Dashboard       *service.DashboardService
	Recommender     *service.RecommendationService
	Logger          *zap.SugaredLogger
}

func NewDashboardHandler(
	listings *service.ListingService,
	dashboard *service.DashboardService,
	recs *service.RecommendationService,
	logger *zap.SugaredLogger,
) *DashboardHandler {
	return &DashboardHandler{Listings: listings, Dashboard: dashboard, Recommender: recs, Logger: logger}
}

func (h *DashboardHandler) Lender(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.GetIdentity(r.Context())
	out, err := h.Listings.ListForOwner(r.Context(), id.UserID)
	if err != nil {
		writeServiceError(w, h.Logger, "Lender", err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *DashboardHandler) Customer(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.GetIdentity(r.Context())
	out, err := h.Dashboard.Customer(r.Context(), id.UserID)
	if err != nil {
		writeServiceError(w, h.Logger, "Customer", err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *DashboardHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.GetIdentity(r.Context())
	out, err := h.Recommender.Recommend(r.Context(), id.UserID)
	if err != nil {
		writeServiceError(w, h.Logger, "Recommendations", err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
