package wire

import (
	"service-marketplace/internal/adaptor"
	"service-marketplace/internal/data/repository"
	"service-marketplace/pkg/middleware"
	"service-marketplace/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireNotification(
	r chi.Router,
	notificationHandler *adaptor.NotificationHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES (require auth) ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))

		// GET /api/notifications - User's notifications
		r.Get("/api/notifications", notificationHandler.GetNotifications)

		// GET /api/notifications/unread-count - Unread badge count
		r.Get("/api/notifications/unread-count", notificationHandler.GetUnreadCount)

		// PUT /api/notifications/{id}/read - Mark one read
		r.Put("/api/notifications/{id}/read", notificationHandler.MarkRead)

		// PUT /api/notifications/read-all - Mark all read
		r.Put("/api/notifications/read-all", notificationHandler.MarkAllRead)
	})
}
