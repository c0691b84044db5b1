package entity

import (
	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationTypeBooking NotificationType = "booking"
	NotificationTypePayment NotificationType = "payment"
	NotificationTypeReview  NotificationType = "review"
	NotificationTypeSystem  NotificationType = "system"
)

type Notification struct {
	BaseSimple
	UserID  uuid.UUID        `db:"user_id"`
	Type    NotificationType `db:"type"`
	Title   string           `db:"title"`
	Message string           `db:"message"`
	Link    *string          `db:"link"`
	IsRead  bool             `db:"is_read"`
}
