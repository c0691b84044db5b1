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

func wireBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES (require auth) ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))

		// POST /api/bookings - Create new booking request
		r.Post("/api/bookings", bookingHandler.CreateBooking)

		// GET /api/bookings/{id} - View booking (parties only)
		r.Get("/api/bookings/{id}", bookingHandler.GetBooking)

		// PUT /api/bookings/{id}/cancel - Cancel booking (either party)
		r.Put("/api/bookings/{id}/cancel", bookingHandler.CancelBooking)

		// PUT /api/bookings/{id}/status - Update booking status
		r.Put("/api/bookings/{id}/status", bookingHandler.UpdateBookingStatus)

		// GET /api/requester/bookings - Requester's booking history
		r.Get("/api/requester/bookings", bookingHandler.GetRequesterBookings)
	})

	// ==================== PROVIDER ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))
		r.Use(middleware.RequireRole(string(entity.RoleProvider), log))

		// PUT /api/bookings/{id}/accept - Accept a pending request
		r.Put("/api/bookings/{id}/accept", bookingHandler.AcceptBooking)

		// PUT /api/bookings/{id}/reject - Decline a pending request
		r.Put("/api/bookings/{id}/reject", bookingHandler.RejectBooking)

		// GET /api/provider/bookings - Provider's incoming requests
		r.Get("/api/provider/bookings", bookingHandler.GetProviderBookings)
	})
}
