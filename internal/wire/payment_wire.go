package wire

import (
	"service-marketplace/internal/adaptor"
	"service-marketplace/internal/data/entity"
	"service-marketplace/internal/data/repository"
	"service-marketplace/pkg/middleware"
	"service-marketplace/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wirePayment(
	r chi.Router,
	paymentHandler *adaptor.PaymentHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES (require auth) ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))

		// POST /api/payments - Pay for a completed booking
		r.Post("/api/payments", paymentHandler.ProcessPayment)

		// GET /api/payments/{id} - View payment (parties only)
		r.Get("/api/payments/{id}", paymentHandler.GetPayment)

		// GET /api/payments/{id}/receipt - Receipt projection
		r.Get("/api/payments/{id}/receipt", paymentHandler.GetReceipt)

		// GET /api/requester/payments - Requester's payment history
		r.Get("/api/requester/payments", paymentHandler.GetRequesterPayments)
	})

	// ==================== PROVIDER ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))
		r.Use(middleware.RequireRole(string(entity.RoleProvider), log))

		// GET /api/provider/payments - Provider's payout history
		r.Get("/api/provider/payments", paymentHandler.GetProviderPayments)

		// GET /api/provider/earnings - Earnings summary over a date range
		r.Get("/api/provider/earnings", paymentHandler.GetEarningsSummary)
	})
}
