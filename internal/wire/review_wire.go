package wire

import (
	"service-marketplace/internal/adaptor"
	"service-marketplace/internal/data/repository"
	"service-marketplace/pkg/middleware"
	"service-marketplace/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireReview(
	r chi.Router,
	reviewHandler *adaptor.ReviewHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	// GET /api/providers/{id}/reviews - Visible reviews for a provider
	r.Get("/api/providers/{id}/reviews", reviewHandler.GetProviderReviews)

	// GET /api/providers/{id}/rating - Rating statistics
	r.Get("/api/providers/{id}/rating", reviewHandler.GetProviderRatingStats)

	// ==================== PROTECTED ROUTES (require auth) ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))

		// POST /api/reviews - Review a completed booking
		r.Post("/api/reviews", reviewHandler.CreateReview)

		// PUT /api/reviews/{id} - Edit review (author only)
		r.Put("/api/reviews/{id}", reviewHandler.UpdateReview)

		// PUT /api/reviews/{id}/response - Provider response
		r.Put("/api/reviews/{id}/response", reviewHandler.RespondToReview)

		// DELETE /api/reviews/{id} - Hide review (author only)
		r.Delete("/api/reviews/{id}", reviewHandler.DeleteReview)
	})
}
