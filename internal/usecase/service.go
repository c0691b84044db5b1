package usecase

import (
	"service-marketplace/internal/data/repository"
	"service-marketplace/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Booking      BookingService
	Payment      PaymentService
	Review       ReviewService
	Search       SearchService
	Notification NotificationService
}

func NewService(repo *repository.Repository, config *utils.Config, log *zap.Logger) *Service {
	notification := NewNotificationService(repo, log)
	mailer := NewLogMailer(log)

	return &Service{
		Booking:      NewBookingService(repo, notification, mailer, log),
		Payment:      NewPaymentService(repo, notification, config.Platform.CommissionRate, log),
		Review:       NewReviewService(repo, notification, log),
		Search:       NewSearchService(repo, config, log),
		Notification: notification,
	}
}
