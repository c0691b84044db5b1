package adaptor

import (
	"encoding/json"
	"net/http"

	"service-marketplace/internal/dto/request"
	"service-marketplace/internal/usecase"
	"service-marketplace/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ReviewHandler struct {
	service usecase.ReviewService
	log     *zap.Logger
}

func NewReviewHandler(service usecase.ReviewService, log *zap.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: service,
		log:     log.With(zap.String("handler", "review")),
	}
}

// CreateReview handles POST /api/reviews (protected, requester)
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	review, err := h.service.CreateReview(r.Context(), userID.String(), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "create review")
		return
	}

	utils.ResponseCreated(w, "success", review)
}

// UpdateReview handles PUT /api/reviews/{id} (protected, author)
func (h *ReviewHandler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	reviewID := chi.URLParam(r, "id")

	var req request.UpdateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	review, err := h.service.UpdateReview(r.Context(), userID.String(), reviewID, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "update review")
		return
	}

	utils.ResponseSuccess(w, "success", review)
}

// RespondToReview handles PUT /api/reviews/{id}/response (protected, provider)
func (h *ReviewHandler) RespondToReview(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	reviewID := chi.URLParam(r, "id")

	var req request.RespondReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	review, err := h.service.RespondToReview(r.Context(), userID.String(), reviewID, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "respond to review")
		return
	}

	utils.ResponseSuccess(w, "success", review)
}

// DeleteReview handles DELETE /api/reviews/{id} (protected, author)
func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	reviewID := chi.URLParam(r, "id")

	if err := h.service.DeleteReview(r.Context(), userID.String(), reviewID); err != nil {
		handleServiceError(h.log, w, err, "delete review")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// GetProviderReviews handles GET /api/providers/{id}/reviews (public)
func (h *ReviewHandler) GetProviderReviews(w http.ResponseWriter, r *http.Request) {
	providerID := chi.URLParam(r, "id")
	req := parsePaginatedRequest(r)

	reviews, err := h.service.GetProviderReviews(r.Context(), providerID, req)
	if err != nil {
		handleServiceError(h.log, w, err, "get provider reviews")
		return
	}

	utils.ResponseSuccess(w, "success", reviews)
}

// GetProviderRatingStats handles GET /api/providers/{id}/rating (public)
func (h *ReviewHandler) GetProviderRatingStats(w http.ResponseWriter, r *http.Request) {
	providerID := chi.URLParam(r, "id")

	stats, err := h.service.GetProviderRatingStats(r.Context(), providerID)
	if err != nil {
		handleServiceError(h.log, w, err, "get provider rating stats")
		return
	}

	utils.ResponseSuccess(w, "success", stats)
}
