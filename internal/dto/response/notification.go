package response

import (
	"time"

	"service-marketplace/internal/data/entity"
)

type NotificationResponse struct {
	ID        string                  `json:"id"`
	Type      entity.NotificationType `json:"type"`
	Title     string                  `json:"title"`
	Message   string                  `json:"message"`
	Link      *string                 `json:"link,omitempty"`
	IsRead    bool                    `json:"is_read"`
	CreatedAt time.Time               `json:"created_at"`
}

type UnreadCountResponse struct {
	UnreadCount int64 `json:"unread_count"`
}

// Helper converter
func NotificationToResponse(notification *entity.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        notification.ID.String(),
		Type:      notification.Type,
		Title:     notification.Title,
		Message:   notification.Message,
		Link:      notification.Link,
		IsRead:    notification.IsRead,
		CreatedAt: notification.CreatedAt,
	}
}
