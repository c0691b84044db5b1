package repository

import (
	"time"

	"service-marketplace/pkg/cache"
	"service-marketplace/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	User         UserRepository
	Session      SessionRepository
	Booking      BookingRepository
	Payment      PaymentRepository
	Review       ReviewRepository
	Notification NotificationRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:         NewUserRepository(db, log),
		Session:      NewSessionRepository(db, log),
		Booking:      NewBookingRepository(db, log),
		Payment:      NewPaymentRepository(db, log),
		Review:       NewReviewRepository(db, log),
		Notification: NewNotificationRepository(db, log),
	}
}

// WithProviderCache swaps the user repository for a cached wrapper.
// Call after NewRepository when Redis is configured.
func (r *Repository) WithProviderCache(c cache.Cache, ttl time.Duration) {
	r.User = NewCachedUserRepository(r.User, c, ttl)
}
