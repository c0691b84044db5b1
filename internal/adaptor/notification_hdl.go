package adaptor

import (
	"net/http"

	"service-marketplace/internal/usecase"
	"service-marketplace/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type NotificationHandler struct {
	service usecase.NotificationService
	log     *zap.Logger
}

func NewNotificationHandler(service usecase.NotificationService, log *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		service: service,
		log:     log.With(zap.String("handler", "notification")),
	}
}

// GetNotifications handles GET /api/notifications (protected)
func (h *NotificationHandler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	req := parsePaginatedRequest(r)

	notifications, err := h.service.GetUserNotifications(r.Context(), userID.String(), req)
	if err != nil {
		handleServiceError(h.log, w, err, "get notifications")
		return
	}

	utils.ResponseSuccess(w, "success", notifications)
}

// GetUnreadCount handles GET /api/notifications/unread-count (protected)
func (h *NotificationHandler) GetUnreadCount(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	count, err := h.service.GetUnreadCount(r.Context(), userID.String())
	if err != nil {
		handleServiceError(h.log, w, err, "get unread count")
		return
	}

	utils.ResponseSuccess(w, "success", count)
}

// MarkRead handles PUT /api/notifications/{id}/read (protected)
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	notificationID := chi.URLParam(r, "id")

	if err := h.service.MarkRead(r.Context(), userID.String(), notificationID); err != nil {
		handleServiceError(h.log, w, err, "mark notification read")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// MarkAllRead handles PUT /api/notifications/read-all (protected)
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	if err := h.service.MarkAllRead(r.Context(), userID.String()); err != nil {
		handleServiceError(h.log, w, err, "mark all notifications read")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}
