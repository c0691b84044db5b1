package adaptor

import (
	"net/http"

	"service-marketplace/internal/usecase"
	"service-marketplace/pkg/apperror"
	"service-marketplace/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Booking      *BookingHandler
	Payment      *PaymentHandler
	Review       *ReviewHandler
	Search       *SearchHandler
	Notification *NotificationHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Booking:      NewBookingHandler(service.Booking, log),
		Payment:      NewPaymentHandler(service.Payment, log),
		Review:       NewReviewHandler(service.Review, log),
		Search:       NewSearchHandler(service.Search, log),
		Notification: NewNotificationHandler(service.Notification, log),
	}
}

// handleServiceError translates a service error into the JSON envelope.
// Caller-fault kinds log as warnings; anything unclassified is a 500.
func handleServiceError(log *zap.Logger, w http.ResponseWriter, err error, operation string) {
	status := apperror.HTTPStatus(err)

	if status >= http.StatusInternalServerError {
		log.Error(operation+" failed",
			zap.Error(err),
			zap.String("operation", operation),
		)
		utils.ResponseInternalError(w, "Internal server error")
		return
	}

	log.Warn(operation+" rejected",
		zap.Error(err),
		zap.String("operation", operation),
		zap.String("kind", string(apperror.KindOf(err))),
	)
	utils.ResponseError(w, status, err.Error(), nil)
}
